package service

import (
	"time"

	"gaportal/internal/apiclient"
	"gaportal/internal/model"
)

// Actor is the signed-in user a page call runs as. Client carries that user's bearer token.
type Actor struct {
	User   *model.User
	Client *apiclient.Client
}

func (a Actor) userID() string {
	if a.User == nil {
		return ""
	}
	return a.User.ID.String()
}

// Clock is swapped in tests.
type Clock func() time.Time

// InZone reports now in loc, so times the portal parses without an offset are read in loc too.
func InZone(now Clock, loc *time.Location) Clock {
	if now == nil {
		now = time.Now
	}
	return func() time.Time { return now().In(loc) }
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
