package service

import (
	"context"
	"math"
	"net/http"
	"time"

	"gaportal/internal/apiclient"
	"gaportal/internal/model"
	"gaportal/internal/resource"
	"gaportal/internal/view"

	"golang.org/x/sync/errgroup"
)

var ErrStartInPast = resource.Refuse("Start time cannot be in the past")

type MeetingSummary struct {
	Upcoming           int               `json:"upcoming"`
	Ongoing            int               `json:"ongoing"`
	Today              int               `json:"today"`
	AvgDurationMinutes int               `json:"avg_duration_minutes"`
	TopRooms           []model.RoomUsage `json:"top_rooms,omitempty"`
}

func summarizeMeetings(meetings []model.Meeting, now time.Time) MeetingSummary {
	var sum MeetingSummary
	var total float64
	var ended int
	for _, m := range meetings {
		start, hasStart := model.ParseTime(m.StartTime, now.Location())
		if hasStart && sameDay(start, now) {
			sum.Today++
		}
		switch m.Status {
		case model.MeetingScheduled:
			if hasStart && start.After(now) {
				sum.Upcoming++
			}
		case model.MeetingOngoing:
			sum.Ongoing++
		case model.MeetingEnded:
			end, hasEnd := model.ParseTime(m.EndTime, now.Location())
			if hasStart && hasEnd {
				total += end.Sub(start).Minutes()
				ended++
			}
		}
	}
	if ended > 0 {
		sum.AvgDurationMinutes = int(math.Round(total / float64(ended)))
	}
	return sum
}

func meetingConfig(emptyMessage string, now Clock) resource.Config[model.Meeting] {
	return resource.Config[model.Meeting]{
		Kind:         view.KindMeeting,
		ListPath:     "/meetings",
		EmptyMessage: emptyMessage,
		ID:           func(m model.Meeting) string { return m.ID.String() },
		Status:       func(m model.Meeting) string { return m.Status },
		Category:     func(m model.Meeting) string { return m.RoomName },
		Search: func(m model.Meeting) []string {
			return []string{m.RoomName, m.Agenda, m.User.DisplayName()}
		},
		Summarize: func(meetings []model.Meeting) interface{} { return summarizeMeetings(meetings, now()) },
	}
}

type MeetingService interface {
	List(ctx context.Context, actor Actor, f resource.Filter) view.List[model.Meeting]
	Create(ctx context.Context, actor Actor, req model.MeetingInput) error
	Update(ctx context.Context, actor Actor, id string, req model.MeetingInput) error
	Delete(ctx context.Context, actor Actor, id string) error
	Start(ctx context.Context, actor Actor, id string) error
	End(ctx context.Context, actor Actor, id string) error
}

type meetingService struct {
	meetings *resource.Controller[model.Meeting]
	audit    AuditService
	now      Clock
}

func NewMeetingService(audit AuditService, now Clock) MeetingService {
	if now == nil {
		now = time.Now
	}
	return &meetingService{meetings: resource.New(meetingConfig("No meetings scheduled", now)), audit: audit, now: now}
}

func (s *meetingService) List(ctx context.Context, actor Actor, f resource.Filter) view.List[model.Meeting] {
	return s.meetings.List(ctx, actor.Client, f)
}

// checkStart refuses bookings that start before now. Unreadable times are left to the backend.
func (s *meetingService) checkStart(startTime string) error {
	now := s.now()
	start, ok := model.ParseTime(startTime, now.Location())
	if ok && start.Before(now) {
		return ErrStartInPast
	}
	return nil
}

func (s *meetingService) Create(ctx context.Context, actor Actor, req model.MeetingInput) error {
	if err := s.checkStart(req.StartTime); err != nil {
		return err
	}
	if _, err := s.meetings.Create(ctx, actor.Client, req); err != nil {
		return resource.Fail(err, "Failed to create meeting")
	}
	audit(ctx, s.audit, actor, model.ActionCreateMeeting, "", req.RoomName, req)
	return nil
}

func (s *meetingService) Update(ctx context.Context, actor Actor, id string, req model.MeetingInput) error {
	if err := s.checkStart(req.StartTime); err != nil {
		return err
	}
	if _, err := s.meetings.Update(ctx, actor.Client, id, req); err != nil {
		return resource.Fail(err, "Failed to update meeting")
	}
	audit(ctx, s.audit, actor, model.ActionUpdateMeeting, id, req.RoomName, req)
	return nil
}

func (s *meetingService) Delete(ctx context.Context, actor Actor, id string) error {
	if err := s.meetings.Delete(ctx, actor.Client, id); err != nil {
		return resource.Fail(err, "Failed to delete meeting")
	}
	audit(ctx, s.audit, actor, model.ActionDeleteMeeting, id, "", nil)
	return nil
}

func (s *meetingService) Start(ctx context.Context, actor Actor, id string) error {
	return s.transition(ctx, actor, id, "start")
}

func (s *meetingService) End(ctx context.Context, actor Actor, id string) error {
	return s.transition(ctx, actor, id, "end")
}

func (s *meetingService) transition(ctx context.Context, actor Actor, id, action string) error {
	if _, err := s.meetings.Action(ctx, actor.Client, id, action, http.MethodPatch, nil); err != nil {
		return statusFailure(err)
	}
	audit(ctx, s.audit, actor, model.ActionMeetingStatus, id, "", map[string]string{"action": action})
	return nil
}

type AdminMeetingService interface {
	List(ctx context.Context, actor Actor, f resource.Filter) view.List[model.Meeting]
	ForceEnd(ctx context.Context, actor Actor, id string) error
}

type adminMeetingService struct {
	meetings *resource.Controller[model.Meeting]
	audit    AuditService
	now      Clock
}

func NewAdminMeetingService(audit AuditService, now Clock) AdminMeetingService {
	if now == nil {
		now = time.Now
	}
	return &adminMeetingService{meetings: resource.New(meetingConfig("No meetings found", now)), audit: audit, now: now}
}

// List loads the meetings and the optional room usage stats side by side.
func (s *adminMeetingService) List(ctx context.Context, actor Actor, f resource.Filter) view.List[model.Meeting] {
	var (
		meetings []model.Meeting
		stats    model.MeetingStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		meetings, err = s.meetings.Fetch(gctx, actor.Client)
		return err
	})
	g.Go(func() error {
		var err error
		if stats, err = apiclient.GetJSON[model.MeetingStats](gctx, actor.Client, "/meetings/stats"); err != nil {
			stats = model.MeetingStats{TopRooms: []model.RoomUsage{}}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return view.Failed[model.Meeting](apiclient.MessageOr(err, "Failed to load"))
	}

	page := s.meetings.Render(meetings, f)
	sum := summarizeMeetings(meetings, s.now())
	sum.TopRooms = stats.TopRooms
	page.Summary = sum
	return page
}

func (s *adminMeetingService) ForceEnd(ctx context.Context, actor Actor, id string) error {
	if _, err := s.meetings.Action(ctx, actor.Client, id, "force-end", http.MethodPatch, nil); err != nil {
		return resource.Fail(err, "Failed to force end")
	}
	audit(ctx, s.audit, actor, model.ActionMeetingStatus, id, "", map[string]string{"action": "force-end"})
	return nil
}
