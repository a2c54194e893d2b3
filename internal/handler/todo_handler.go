package handler

import (
	"net/http"

	"gaportal/internal/middleware"
	"gaportal/internal/model"
	"gaportal/internal/service"
	"gaportal/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type TodoHandler struct {
	todoService  service.TodoService
	adminService service.AdminTodoService
}

func NewTodoHandler(todoService service.TodoService, adminService service.AdminTodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService, adminService: adminService}
}

func (h *TodoHandler) RegisterRoutes(router *gin.RouterGroup) {
	todos := router.Group("/todos", middleware.RequireRole(model.RoleUser))
	{
		todos.GET("", h.GetTodos)
		todos.POST("", h.CreateTodo)
		todos.PUT("/:id", h.UpdateTodo)
		todos.DELETE("/:id", h.DeleteTodo)
		todos.PATCH("/:id/status", h.ChangeStatus)
		todos.POST("/:id/evidence", h.SubmitEvidence)
	}

	admin := router.Group("/admin/todos", middleware.RequireRole(model.RoleAdmin))
	{
		admin.GET("", h.GetAllTodos)
		admin.POST("/:id/evaluate", h.EvaluateTodo)
		admin.PATCH("/:id/note", h.SaveNote)
	}
}

func (h *TodoHandler) list(c *gin.Context, status int) {
	c.JSON(status, response.Success(status, h.todoService.List(c.Request.Context(), currentActor(c), bindFilter(c))))
}

// GetTodos handles GET /todos
// @Summary      My to-dos
// @Tags         todos
// @Produce      json
// @Param        search  query     string  false  "Title or description contains"
// @Param        status  query     string  false  "Status filter, all for none"
// @Success      200     {object}  response.Response{data=view.List[model.Todo]}
// @Router       /todos [get]
func (h *TodoHandler) GetTodos(c *gin.Context) {
	h.list(c, http.StatusOK)
}

// CreateTodo handles POST /todos
// @Summary      Create a to-do
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        payload  body      model.TodoInput  true  "To-do"
// @Success      201      {object}  response.Response{data=view.List[model.Todo]}
// @Failure      400      {object}  response.Response
// @Router       /todos [post]
func (h *TodoHandler) CreateTodo(c *gin.Context) {
	var req model.TodoInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.todoService.Create(c.Request.Context(), currentActor(c), req); err != nil {
		fail(c, err)
		return
	}
	h.list(c, http.StatusCreated)
}

// UpdateTodo handles PUT /todos/:id
// @Summary      Edit a to-do
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        id       path      string           true  "To-do ID"
// @Param        payload  body      model.TodoInput  true  "To-do"
// @Success      200      {object}  response.Response{data=view.List[model.Todo]}
// @Router       /todos/{id} [put]
func (h *TodoHandler) UpdateTodo(c *gin.Context) {
	var req model.TodoInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.todoService.Update(c.Request.Context(), currentActor(c), c.Param("id"), req); err != nil {
		fail(c, err)
		return
	}
	h.list(c, http.StatusOK)
}

// DeleteTodo handles DELETE /todos/:id
// @Summary      Delete a to-do
// @Tags         todos
// @Produce      json
// @Param        id   path      string  true  "To-do ID"
// @Success      200  {object}  response.Response{data=view.List[model.Todo]}
// @Router       /todos/{id} [delete]
func (h *TodoHandler) DeleteTodo(c *gin.Context) {
	if err := h.todoService.Delete(c.Request.Context(), currentActor(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	h.list(c, http.StatusOK)
}

// ChangeStatus handles PATCH /todos/:id/status. Moving to checking is refused; evidence upload does that.
// @Summary      Change to-do status
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        id       path      string         true  "To-do ID"
// @Param        payload  body      StatusRequest  true  "New status"
// @Success      200      {object}  response.Response{data=view.List[model.Todo]}
// @Failure      422      {object}  response.Response
// @Router       /todos/{id}/status [patch]
func (h *TodoHandler) ChangeStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.todoService.ChangeStatus(c.Request.Context(), currentActor(c), c.Param("id"), req.Status); err != nil {
		fail(c, err)
		return
	}
	h.list(c, http.StatusOK)
}

// SubmitEvidence handles POST /todos/:id/evidence
// @Summary      Upload evidence and submit for checking
// @Tags         todos
// @Accept       multipart/form-data
// @Produce      json
// @Param        id        path      string  true  "To-do ID"
// @Param        evidence  formData  file    true  "Evidence file"
// @Success      200       {object}  response.Response{data=view.List[model.Todo]}
// @Failure      422       {object}  response.Response
// @Router       /todos/{id}/evidence [post]
func (h *TodoHandler) SubmitEvidence(c *gin.Context) {
	file, err := readUpload(c, "evidence")
	if err != nil {
		badRequest(c, err)
		return
	}
	if file == nil {
		fail(c, service.ErrEvidenceRequired)
		return
	}
	if err := h.todoService.SubmitEvidence(c.Request.Context(), currentActor(c), c.Param("id"), *file); err != nil {
		fail(c, err)
		return
	}
	h.list(c, http.StatusOK)
}

func (h *TodoHandler) adminList(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.adminService.List(c.Request.Context(), currentActor(c), bindFilter(c))))
}

// GetAllTodos handles GET /admin/todos
// @Summary      Every employee's to-dos
// @Tags         admin
// @Produce      json
// @Param        search  query     string  false  "Title, description or owner contains"
// @Param        status  query     string  false  "Status filter"
// @Success      200     {object}  response.Response{data=view.List[model.Todo]}
// @Router       /admin/todos [get]
func (h *TodoHandler) GetAllTodos(c *gin.Context) {
	h.adminList(c)
}

// EvaluateTodo handles POST /admin/todos/:id/evaluate
// @Summary      Approve or send back a to-do
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "To-do ID"
// @Param        payload  body      service.EvaluateRequest  true  "Evaluation"
// @Success      200      {object}  response.Response{data=view.List[model.Todo]}
// @Router       /admin/todos/{id}/evaluate [post]
func (h *TodoHandler) EvaluateTodo(c *gin.Context) {
	var req service.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.adminService.Evaluate(c.Request.Context(), currentActor(c), c.Param("id"), req); err != nil {
		fail(c, err)
		return
	}
	h.adminList(c)
}

// SaveNote handles PATCH /admin/todos/:id/note
// @Summary      Save the admin note of a to-do
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "To-do ID"
// @Param        payload  body      service.NoteRequest  true  "Note"
// @Success      200      {object}  response.Response{data=view.List[model.Todo]}
// @Router       /admin/todos/{id}/note [patch]
func (h *TodoHandler) SaveNote(c *gin.Context) {
	var req service.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.adminService.SaveNote(c.Request.Context(), currentActor(c), c.Param("id"), req); err != nil {
		fail(c, err)
		return
	}
	h.adminList(c)
}
