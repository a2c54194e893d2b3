package handler

import (
	"net/http"

	"gaportal/internal/middleware"
	"gaportal/internal/model"
	"gaportal/internal/service"
	"gaportal/pkg/response"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	requestService service.RequestService
	adminService   service.AdminRequestService
}

func NewRequestHandler(requestService service.RequestService, adminService service.AdminRequestService) *RequestHandler {
	return &RequestHandler{requestService: requestService, adminService: adminService}
}

func (h *RequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/requests", middleware.RequireRole(model.RoleUser))
	{
		requests.GET("", h.GetRequests)
		requests.POST("", h.CreateRequest)
		requests.PUT("/:id", h.UpdateRequest)
		requests.DELETE("/:id", h.DeleteRequest)
	}

	admin := router.Group("/admin/requests", middleware.RequireRole(model.RoleAdmin))
	{
		admin.GET("", h.GetAllRequests)
		admin.PATCH("/:id/approve", h.ApproveRequest)
		admin.PATCH("/:id/reject", h.RejectRequest)
		admin.PATCH("/:id/note", h.SaveNote)
	}
}

func (h *RequestHandler) list(c *gin.Context, status int) {
	c.JSON(status, response.Success(status, h.requestService.List(c.Request.Context(), currentActor(c), bindFilter(c))))
}

// GetRequests handles GET /requests
// @Summary      My item requests
// @Tags         requests
// @Produce      json
// @Param        search    query     string  false  "Item name or reason contains"
// @Param        status    query     string  false  "Status filter"
// @Param        category  query     string  false  "Category filter"
// @Success      200       {object}  response.Response{data=view.List[model.ItemRequest]}
// @Router       /requests [get]
func (h *RequestHandler) GetRequests(c *gin.Context) {
	h.list(c, http.StatusOK)
}

// CreateRequest handles POST /requests
// @Summary      Request an item
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        payload  body      model.ItemRequestInput  true  "Request"
// @Success      201      {object}  response.Response{data=view.List[model.ItemRequest]}
// @Router       /requests [post]
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var req model.ItemRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.requestService.Create(c.Request.Context(), currentActor(c), req); err != nil {
		fail(c, err)
		return
	}
	h.list(c, http.StatusCreated)
}

// UpdateRequest handles PUT /requests/:id
// @Summary      Edit an item request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        id       path      string                  true  "Request ID"
// @Param        payload  body      model.ItemRequestInput  true  "Request"
// @Success      200      {object}  response.Response{data=view.List[model.ItemRequest]}
// @Router       /requests/{id} [put]
func (h *RequestHandler) UpdateRequest(c *gin.Context) {
	var req model.ItemRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.requestService.Update(c.Request.Context(), currentActor(c), c.Param("id"), req); err != nil {
		fail(c, err)
		return
	}
	h.list(c, http.StatusOK)
}

// DeleteRequest handles DELETE /requests/:id
// @Summary      Withdraw an item request
// @Tags         requests
// @Produce      json
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=view.List[model.ItemRequest]}
// @Router       /requests/{id} [delete]
func (h *RequestHandler) DeleteRequest(c *gin.Context) {
	if err := h.requestService.Delete(c.Request.Context(), currentActor(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	h.list(c, http.StatusOK)
}

func (h *RequestHandler) adminList(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.adminService.List(c.Request.Context(), currentActor(c), bindFilter(c))))
}

// GetAllRequests handles GET /admin/requests
// @Summary      Every item request
// @Tags         admin
// @Produce      json
// @Param        search    query     string  false  "Item name, reason or requester contains"
// @Param        status    query     string  false  "Status filter"
// @Param        category  query     string  false  "Category filter"
// @Success      200       {object}  response.Response{data=view.List[model.ItemRequest]}
// @Router       /admin/requests [get]
func (h *RequestHandler) GetAllRequests(c *gin.Context) {
	h.adminList(c)
}

type reviewFunc func(c *gin.Context, id string, note model.ReviewNote) error

func (h *RequestHandler) review(c *gin.Context, fn reviewFunc) {
	var note model.ReviewNote
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&note); err != nil {
			badRequest(c, err)
			return
		}
	}
	if err := fn(c, c.Param("id"), note); err != nil {
		fail(c, err)
		return
	}
	h.adminList(c)
}

// ApproveRequest handles PATCH /admin/requests/:id/approve
// @Summary      Approve an item request
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id       path      string            true   "Request ID"
// @Param        payload  body      model.ReviewNote  false  "GA note"
// @Success      200      {object}  response.Response{data=view.List[model.ItemRequest]}
// @Router       /admin/requests/{id}/approve [patch]
func (h *RequestHandler) ApproveRequest(c *gin.Context) {
	h.review(c, func(c *gin.Context, id string, note model.ReviewNote) error {
		return h.adminService.Approve(c.Request.Context(), currentActor(c), id, note)
	})
}

// RejectRequest handles PATCH /admin/requests/:id/reject
// @Summary      Reject an item request
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id       path      string            true   "Request ID"
// @Param        payload  body      model.ReviewNote  false  "GA note"
// @Success      200      {object}  response.Response{data=view.List[model.ItemRequest]}
// @Router       /admin/requests/{id}/reject [patch]
func (h *RequestHandler) RejectRequest(c *gin.Context) {
	h.review(c, func(c *gin.Context, id string, note model.ReviewNote) error {
		return h.adminService.Reject(c.Request.Context(), currentActor(c), id, note)
	})
}

// SaveNote handles PATCH /admin/requests/:id/note
// @Summary      Save the GA note of an item request
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id       path      string            true  "Request ID"
// @Param        payload  body      model.ReviewNote  true  "GA note"
// @Success      200      {object}  response.Response{data=view.List[model.ItemRequest]}
// @Failure      404      {object}  response.Response
// @Router       /admin/requests/{id}/note [patch]
func (h *RequestHandler) SaveNote(c *gin.Context) {
	h.review(c, func(c *gin.Context, id string, note model.ReviewNote) error {
		return h.adminService.SaveNote(c.Request.Context(), currentActor(c), id, note)
	})
}
