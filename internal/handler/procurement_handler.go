package handler

import (
	"context"
	"net/http"

	"gaportal/internal/middleware"
	"gaportal/internal/model"
	"gaportal/internal/service"
	"gaportal/internal/websocket"
	"gaportal/pkg/response"

	"github.com/gin-gonic/gin"
)

type ProcurementHandler struct {
	procurementService service.ProcurementService
	watcher            *service.PipelineWatcher
	hub                *websocket.Hub
}

func NewProcurementHandler(procurementService service.ProcurementService, watcher *service.PipelineWatcher, hub *websocket.Hub) *ProcurementHandler {
	return &ProcurementHandler{procurementService: procurementService, watcher: watcher, hub: hub}
}

func (h *ProcurementHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/procurement", middleware.RequireRole(model.RoleProcurement))
	{
		group.GET("/requests", h.GetPipeline)
		group.POST("/requests/:id/start", h.StartProcurement)
		group.POST("/requests/:id/complete", h.CompleteProcurement)
		group.GET("/records", h.GetRecords)
		group.POST("/records", h.RecordProcurement)
		group.GET("/stats", h.GetStats)
		group.GET("/ws", h.ServeWs)
	}
}

// GetPipeline handles GET /procurement/requests
// @Summary      Procurement pipeline
// @Description  Approved requests with the status of their asset
// @Tags         procurement
// @Produce      json
// @Param        search    query     string  false  "Item name, reason or requester contains"
// @Param        status    query     string  false  "Display status filter"
// @Param        category  query     string  false  "Category filter"
// @Success      200       {object}  response.Response{data=view.List[model.PipelineItem]}
// @Router       /procurement/requests [get]
func (h *ProcurementHandler) GetPipeline(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.procurementService.Pipeline(c.Request.Context(), currentActor(c), bindFilter(c))))
}

// StartProcurement handles POST /procurement/requests/:id/start
// @Summary      Start procurement of a request
// @Description  Records the purchase from the request's own data. The reply already shows the new status.
// @Tags         procurement
// @Produce      json
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=view.List[model.PipelineItem]}
// @Failure      404  {object}  response.Response
// @Router       /procurement/requests/{id}/start [post]
func (h *ProcurementHandler) StartProcurement(c *gin.Context) {
	list, err := h.procurementService.Start(c.Request.Context(), currentActor(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, list))
}

// CompleteProcurement handles POST /procurement/requests/:id/complete
// @Summary      Mark a request completed
// @Description  Local to the caller's pipeline; the next refresh from the backend wins
// @Tags         procurement
// @Produce      json
// @Param        id   path      string  true  "Request ID"
// @Success      200  {object}  response.Response{data=view.List[model.PipelineItem]}
// @Failure      404  {object}  response.Response
// @Router       /procurement/requests/{id}/complete [post]
func (h *ProcurementHandler) CompleteProcurement(c *gin.Context) {
	list, err := h.procurementService.Complete(c.Request.Context(), currentActor(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, list))
}

// GetRecords handles GET /procurement/records
// @Summary      Purchase records
// @Tags         procurement
// @Produce      json
// @Param        search  query     string  false  "Item, reason or notes contains"
// @Success      200     {object}  response.Response{data=view.List[model.Procurement]}
// @Router       /procurement/records [get]
func (h *ProcurementHandler) GetRecords(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.procurementService.Records(c.Request.Context(), currentActor(c), bindFilter(c))))
}

// RecordProcurement handles POST /procurement/records
// @Summary      Record a purchase
// @Tags         procurement
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RecordRequest  true  "Purchase"
// @Success      201      {object}  response.Response{data=view.List[model.Procurement]}
// @Router       /procurement/records [post]
func (h *ProcurementHandler) RecordProcurement(c *gin.Context) {
	var req service.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	actor := currentActor(c)
	if err := h.procurementService.Record(c.Request.Context(), actor, req); err != nil {
		fail(c, err)
		return
	}
	h.watcher.Refresh()
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, h.procurementService.Records(c.Request.Context(), actor, bindFilter(c))))
}

// GetStats handles GET /procurement/stats
// @Summary      Monthly procurement counts and spend
// @Tags         procurement
// @Produce      json
// @Success      200  {object}  response.Response{data=model.ProcurementStats}
// @Router       /procurement/stats [get]
func (h *ProcurementHandler) GetStats(c *gin.Context) {
	stats, err := h.procurementService.Stats(c.Request.Context(), currentActor(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// ServeWs upgrades to a websocket that receives the pipeline whenever it changes.
// @Summary      Live pipeline
// @Tags         procurement
// @Success      101
// @Failure      401  {object}  response.Response
// @Router       /procurement/ws [get]
func (h *ProcurementHandler) ServeWs(c *gin.Context) {
	actor := currentActor(c)
	websocket.ServeWs(h.hub, c, actor.User.ID.String(), func(ctx context.Context, push func([]byte) error) {
		h.watcher.Watch(ctx, actor, push)
	})
}
