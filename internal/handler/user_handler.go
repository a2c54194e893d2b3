package handler

import (
	"net/http"

	"gaportal/internal/middleware"
	"gaportal/internal/model"
	"gaportal/internal/service"
	"gaportal/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/admin/users", middleware.RequireRole(model.RoleAdmin))
	{
		users.GET("", h.GetUsers)
		users.POST("", h.CreateUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", h.DeleteUser)
	}
}

func (h *UserHandler) list(c *gin.Context, status int) {
	c.JSON(status, response.Success(status, h.userService.List(c.Request.Context(), currentActor(c), bindFilter(c))))
}

// GetUsers handles GET /admin/users
// @Summary      Portal users
// @Tags         admin
// @Produce      json
// @Param        search  query     string  false  "Name, email or department contains"
// @Param        status  query     string  false  "Role filter"
// @Success      200     {object}  response.Response{data=view.List[model.User]}
// @Router       /admin/users [get]
func (h *UserHandler) GetUsers(c *gin.Context) {
	h.list(c, http.StatusOK)
}

// CreateUser handles POST /admin/users
// @Summary      Create a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        payload  body      model.UserInput  true  "User"
// @Success      201      {object}  response.Response{data=view.List[model.User]}
// @Failure      400      {object}  response.Response
// @Router       /admin/users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req model.UserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.userService.Create(c.Request.Context(), currentActor(c), req); err != nil {
		fail(c, err)
		return
	}
	h.list(c, http.StatusCreated)
}

// UpdateUser handles PUT /admin/users/:id
// @Summary      Edit a user
// @Description  An empty password keeps the current one
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id       path      string           true  "User ID"
// @Param        payload  body      model.UserInput  true  "User"
// @Success      200      {object}  response.Response{data=view.List[model.User]}
// @Router       /admin/users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req model.UserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.userService.Update(c.Request.Context(), currentActor(c), c.Param("id"), req); err != nil {
		fail(c, err)
		return
	}
	h.list(c, http.StatusOK)
}

// DeleteUser handles DELETE /admin/users/:id
// @Summary      Delete a user
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  response.Response{data=view.List[model.User]}
// @Router       /admin/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), currentActor(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	h.list(c, http.StatusOK)
}
