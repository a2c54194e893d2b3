package handler

import (
	"fmt"
	"net/http"

	"gaportal/internal/middleware"
	"gaportal/internal/model"
	"gaportal/internal/service"
	"gaportal/pkg/pagination"
	"gaportal/pkg/response"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type VisitorHandler struct {
	visitorService service.VisitorService
	now            service.Clock
}

func NewVisitorHandler(visitorService service.VisitorService, now service.Clock) *VisitorHandler {
	return &VisitorHandler{visitorService: visitorService, now: now}
}

func (h *VisitorHandler) RegisterRoutes(router *gin.RouterGroup) {
	visitors := router.Group("/admin/visitors", middleware.RequireRole(model.RoleAdmin))
	{
		visitors.GET("", h.GetVisitors)
		visitors.GET("/export", h.ExportVisitors)
		visitors.POST("", h.CreateVisitor)
		visitors.PATCH("/:id", h.UpdateVisitor)
		visitors.POST("/:id/check-out", h.CheckOut)
		visitors.DELETE("/:id", h.DeleteVisitor)
	}
}

func (h *VisitorHandler) list(c *gin.Context, status int) {
	page := pagination.Parse(c)
	c.JSON(status, response.Success(status, h.visitorService.List(c.Request.Context(), currentActor(c), page, bindFilter(c))))
}

// bindForm reads the registration form. Only fields present in the request are set.
func bindForm(c *gin.Context) (service.VisitorForm, error) {
	var form service.VisitorForm
	for field, dst := range map[string]**string{
		"name":      &form.Name,
		"meet_with": &form.MeetWith,
		"purpose":   &form.Purpose,
		"origin":    &form.Origin,
	} {
		if v, ok := c.GetPostForm(field); ok {
			value := v
			*dst = &value
		}
	}
	var err error
	if form.KTPImage, err = readUpload(c, "ktp_image"); err != nil {
		return form, err
	}
	if form.FaceImage, err = readUpload(c, "face_image"); err != nil {
		return form, err
	}
	return form, nil
}

// GetVisitors handles GET /admin/visitors
// @Summary      Visitor log
// @Tags         admin
// @Produce      json
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        per_page  query     int     false  "Rows per page (default 10)"
// @Param        search    query     string  false  "Name, origin or host contains"
// @Param        status    query     string  false  "checked_in or checked_out"
// @Success      200       {object}  response.Response{data=view.List[model.Visitor]}
// @Router       /admin/visitors [get]
func (h *VisitorHandler) GetVisitors(c *gin.Context) {
	h.list(c, http.StatusOK)
}

// CreateVisitor handles POST /admin/visitors
// @Summary      Register a visitor
// @Tags         admin
// @Accept       multipart/form-data
// @Produce      json
// @Param        name        formData  string  true   "Name"
// @Param        meet_with   formData  string  true   "Host"
// @Param        purpose     formData  string  true   "Purpose"
// @Param        origin      formData  string  false  "Company or origin"
// @Param        ktp_image   formData  file    false  "ID card photo"
// @Param        face_image  formData  file    false  "Face photo"
// @Success      201         {object}  response.Response{data=view.List[model.Visitor]}
// @Router       /admin/visitors [post]
func (h *VisitorHandler) CreateVisitor(c *gin.Context) {
	form, err := bindForm(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	if form.Name == nil || *form.Name == "" {
		badRequest(c, fmt.Errorf("name is required"))
		return
	}
	if err := h.visitorService.Create(c.Request.Context(), currentActor(c), form); err != nil {
		fail(c, err)
		return
	}
	h.list(c, http.StatusCreated)
}

// UpdateVisitor handles PATCH /admin/visitors/:id
// @Summary      Edit a visitor
// @Description  Only the submitted fields and images change
// @Tags         admin
// @Accept       multipart/form-data
// @Produce      json
// @Param        id          path      string  true   "Visitor ID"
// @Param        name        formData  string  false  "Name"
// @Param        meet_with   formData  string  false  "Host"
// @Param        purpose     formData  string  false  "Purpose"
// @Param        origin      formData  string  false  "Company or origin"
// @Param        ktp_image   formData  file    false  "ID card photo"
// @Param        face_image  formData  file    false  "Face photo"
// @Success      200         {object}  response.Response{data=view.List[model.Visitor]}
// @Router       /admin/visitors/{id} [patch]
func (h *VisitorHandler) UpdateVisitor(c *gin.Context) {
	form, err := bindForm(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := h.visitorService.Update(c.Request.Context(), currentActor(c), c.Param("id"), form); err != nil {
		fail(c, err)
		return
	}
	h.list(c, http.StatusOK)
}

// CheckOut handles POST /admin/visitors/:id/check-out
// @Summary      Check a visitor out
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Visitor ID"
// @Success      200  {object}  response.Response{data=view.List[model.Visitor]}
// @Router       /admin/visitors/{id}/check-out [post]
func (h *VisitorHandler) CheckOut(c *gin.Context) {
	if err := h.visitorService.CheckOut(c.Request.Context(), currentActor(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	h.list(c, http.StatusOK)
}

// DeleteVisitor handles DELETE /admin/visitors/:id
// @Summary      Delete a visitor
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Visitor ID"
// @Success      200  {object}  response.Response{data=view.List[model.Visitor]}
// @Router       /admin/visitors/{id} [delete]
func (h *VisitorHandler) DeleteVisitor(c *gin.Context) {
	if err := h.visitorService.Delete(c.Request.Context(), currentActor(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	h.list(c, http.StatusOK)
}

// ExportVisitors handles GET /admin/visitors/export
// @Summary      Export the visitor log
// @Tags         admin
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}    file
// @Failure      502  {object}  response.Response
// @Router       /admin/visitors/export [get]
func (h *VisitorHandler) ExportVisitors(c *gin.Context) {
	buf, err := h.visitorService.Export(c.Request.Context(), currentActor(c))
	if err != nil {
		fail(c, err)
		return
	}
	filename := fmt.Sprintf("visitors-%s.xlsx", h.now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
