package handler

import (
	"net/http"

	"gaportal/internal/middleware"
	"gaportal/internal/service"
	"gaportal/pkg/response"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard", middleware.RequireRole(), h.GetDashboard)
}

// GetDashboard handles GET /dashboard
// @Summary      Role dashboard
// @Description  Stat cards, chart and quick actions for the caller's role. A slow backend yields timed_out instead of an error.
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  response.Response{data=view.Dashboard}
// @Failure      401  {object}  response.Response
// @Router       /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.dashboardService.Build(c.Request.Context(), currentActor(c))))
}
