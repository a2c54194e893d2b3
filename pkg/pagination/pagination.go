package pagination

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	MinLimit     = 1
)

// Params holds validated pagination parameters
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Parse extracts page and per_page from the query. limit is accepted as an alias of per_page.
func Parse(c *gin.Context) Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	raw := c.Query("per_page")
	if raw == "" {
		raw = c.DefaultQuery("limit", strconv.Itoa(DefaultLimit))
	}
	limit, _ := strconv.Atoi(raw)
	return New(page, limit)
}

// New clamps page and limit into range.
func New(page, limit int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if limit < MinLimit {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// Query renders the params the way the backend's paged endpoints expect them.
func (p Params) Query() string {
	return fmt.Sprintf("per_page=%d&page=%d", p.Limit, p.Page)
}
