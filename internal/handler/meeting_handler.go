package handler

import (
	"net/http"

	"gaportal/internal/middleware"
	"gaportal/internal/model"
	"gaportal/internal/service"
	"gaportal/pkg/response"

	"github.com/gin-gonic/gin"
)

type MeetingHandler struct {
	meetingService service.MeetingService
	adminService   service.AdminMeetingService
}

func NewMeetingHandler(meetingService service.MeetingService, adminService service.AdminMeetingService) *MeetingHandler {
	return &MeetingHandler{meetingService: meetingService, adminService: adminService}
}

func (h *MeetingHandler) RegisterRoutes(router *gin.RouterGroup) {
	meetings := router.Group("/meetings", middleware.RequireRole(model.RoleUser))
	{
		meetings.GET("", h.GetMeetings)
		meetings.POST("", h.CreateMeeting)
		meetings.PUT("/:id", h.UpdateMeeting)
		meetings.DELETE("/:id", h.DeleteMeeting)
		meetings.PATCH("/:id/start", h.StartMeeting)
		meetings.PATCH("/:id/end", h.EndMeeting)
	}

	admin := router.Group("/admin/meetings", middleware.RequireRole(model.RoleAdmin))
	{
		admin.GET("", h.GetAllMeetings)
		admin.PATCH("/:id/force-end", h.ForceEndMeeting)
	}
}

func (h *MeetingHandler) list(c *gin.Context, status int) {
	c.JSON(status, response.Success(status, h.meetingService.List(c.Request.Context(), currentActor(c), bindFilter(c))))
}

// GetMeetings handles GET /meetings
// @Summary      My room bookings
// @Tags         meetings
// @Produce      json
// @Param        search  query     string  false  "Room or agenda contains"
// @Param        status  query     string  false  "scheduled, ongoing or ended"
// @Success      200     {object}  response.Response{data=view.List[model.Meeting]}
// @Router       /meetings [get]
func (h *MeetingHandler) GetMeetings(c *gin.Context) {
	h.list(c, http.StatusOK)
}

// CreateMeeting handles POST /meetings
// @Summary      Book a room
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Param        payload  body      model.MeetingInput  true  "Booking"
// @Success      201      {object}  response.Response{data=view.List[model.Meeting]}
// @Failure      422      {object}  response.Response
// @Router       /meetings [post]
func (h *MeetingHandler) CreateMeeting(c *gin.Context) {
	var req model.MeetingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.meetingService.Create(c.Request.Context(), currentActor(c), req); err != nil {
		fail(c, err)
		return
	}
	h.list(c, http.StatusCreated)
}

// UpdateMeeting handles PUT /meetings/:id
// @Summary      Edit a booking
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Param        id       path      string              true  "Meeting ID"
// @Param        payload  body      model.MeetingInput  true  "Booking"
// @Success      200      {object}  response.Response{data=view.List[model.Meeting]}
// @Failure      422      {object}  response.Response
// @Router       /meetings/{id} [put]
func (h *MeetingHandler) UpdateMeeting(c *gin.Context) {
	var req model.MeetingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.meetingService.Update(c.Request.Context(), currentActor(c), c.Param("id"), req); err != nil {
		fail(c, err)
		return
	}
	h.list(c, http.StatusOK)
}

// DeleteMeeting handles DELETE /meetings/:id
// @Summary      Cancel a booking
// @Tags         meetings
// @Produce      json
// @Param        id   path      string  true  "Meeting ID"
// @Success      200  {object}  response.Response{data=view.List[model.Meeting]}
// @Router       /meetings/{id} [delete]
func (h *MeetingHandler) DeleteMeeting(c *gin.Context) {
	if err := h.meetingService.Delete(c.Request.Context(), currentActor(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	h.list(c, http.StatusOK)
}

// StartMeeting handles PATCH /meetings/:id/start
// @Summary      Start a meeting
// @Tags         meetings
// @Produce      json
// @Param        id   path      string  true  "Meeting ID"
// @Success      200  {object}  response.Response{data=view.List[model.Meeting]}
// @Router       /meetings/{id}/start [patch]
func (h *MeetingHandler) StartMeeting(c *gin.Context) {
	if err := h.meetingService.Start(c.Request.Context(), currentActor(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	h.list(c, http.StatusOK)
}

// EndMeeting handles PATCH /meetings/:id/end
// @Summary      End a meeting
// @Tags         meetings
// @Produce      json
// @Param        id   path      string  true  "Meeting ID"
// @Success      200  {object}  response.Response{data=view.List[model.Meeting]}
// @Router       /meetings/{id}/end [patch]
func (h *MeetingHandler) EndMeeting(c *gin.Context) {
	if err := h.meetingService.End(c.Request.Context(), currentActor(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	h.list(c, http.StatusOK)
}

// GetAllMeetings handles GET /admin/meetings
// @Summary      Every booking with room usage
// @Tags         admin
// @Produce      json
// @Param        search  query     string  false  "Room, agenda or organizer contains"
// @Param        status  query     string  false  "Status filter"
// @Success      200     {object}  response.Response{data=view.List[model.Meeting]}
// @Router       /admin/meetings [get]
func (h *MeetingHandler) GetAllMeetings(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.adminService.List(c.Request.Context(), currentActor(c), bindFilter(c))))
}

// ForceEndMeeting handles PATCH /admin/meetings/:id/force-end
// @Summary      Force-end a meeting
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Meeting ID"
// @Success      200  {object}  response.Response{data=view.List[model.Meeting]}
// @Router       /admin/meetings/{id}/force-end [patch]
func (h *MeetingHandler) ForceEndMeeting(c *gin.Context) {
	if err := h.adminService.ForceEnd(c.Request.Context(), currentActor(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	h.GetAllMeetings(c)
}
