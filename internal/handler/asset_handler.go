package handler

import (
	"net/http"

	"gaportal/internal/middleware"
	"gaportal/internal/model"
	"gaportal/internal/service"
	"gaportal/pkg/response"

	"github.com/gin-gonic/gin"
)

type AssetHandler struct {
	assetService       service.AssetService
	adminService       service.AdminAssetService
	procurementService service.ProcurementAssetService
}

func NewAssetHandler(assetService service.AssetService, adminService service.AdminAssetService, procurementService service.ProcurementAssetService) *AssetHandler {
	return &AssetHandler{assetService: assetService, adminService: adminService, procurementService: procurementService}
}

func (h *AssetHandler) RegisterRoutes(router *gin.RouterGroup) {
	assets := router.Group("/assets", middleware.RequireRole(model.RoleUser))
	{
		assets.GET("", h.GetAssets)
		assets.PATCH("/:id/status", h.UpdateStatus)
	}

	admin := router.Group("/admin/assets", middleware.RequireRole(model.RoleAdmin))
	{
		admin.GET("", h.GetAllAssets)
		admin.PATCH("/:id/approve", h.ApproveAsset)
		admin.PATCH("/:id/reject", h.RejectAsset)
	}

	procurement := router.Group("/procurement/assets", middleware.RequireRole(model.RoleProcurement))
	{
		procurement.GET("", h.GetProcurementAssets)
		procurement.POST("/:id/repairing", h.MarkRepairing)
		procurement.POST("/:id/replacing", h.MarkReplacing)
	}
}

// GetAssets handles GET /assets
// @Summary      My assets
// @Tags         assets
// @Produce      json
// @Param        search    query     string  false  "Asset code or item name contains"
// @Param        status    query     string  false  "Status filter"
// @Param        category  query     string  false  "Category filter"
// @Success      200       {object}  response.Response{data=view.List[model.Asset]}
// @Router       /assets [get]
func (h *AssetHandler) GetAssets(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.assetService.List(c.Request.Context(), currentActor(c), bindFilter(c))))
}

// UpdateStatus handles PATCH /assets/:id/status
// @Summary      Report an asset as received or broken
// @Tags         assets
// @Accept       multipart/form-data
// @Produce      json
// @Param        id             path      string  true   "Asset ID"
// @Param        status         formData  string  true   "received, needs_repair or needs_replacement"
// @Param        notes          formData  string  false  "Notes"
// @Param        receipt_proof  formData  file    false  "Receipt photo"
// @Param        repair_proof   formData  file    false  "Damage photo"
// @Success      200            {object}  response.Response{data=view.List[model.Asset]}
// @Router       /assets/{id}/status [patch]
func (h *AssetHandler) UpdateStatus(c *gin.Context) {
	var req service.AssetStatusUpdate
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}
	var err error
	if req.ReceiptProof, err = readUpload(c, "receipt_proof"); err != nil {
		badRequest(c, err)
		return
	}
	if req.RepairProof, err = readUpload(c, "repair_proof"); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.assetService.UpdateStatus(c.Request.Context(), currentActor(c), c.Param("id"), req); err != nil {
		fail(c, err)
		return
	}
	h.GetAssets(c)
}

// GetAllAssets handles GET /admin/assets
// @Summary      Every asset
// @Tags         admin
// @Produce      json
// @Param        search    query     string  false  "Asset code, item name or holder contains"
// @Param        status    query     string  false  "Status filter"
// @Param        category  query     string  false  "Category filter"
// @Success      200       {object}  response.Response{data=view.List[model.Asset]}
// @Router       /admin/assets [get]
func (h *AssetHandler) GetAllAssets(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.adminService.List(c.Request.Context(), currentActor(c), bindFilter(c))))
}

// ApproveAsset handles PATCH /admin/assets/:id/approve
// @Summary      Confirm an asset as received
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Asset ID"
// @Success      200  {object}  response.Response{data=view.List[model.Asset]}
// @Router       /admin/assets/{id}/approve [patch]
func (h *AssetHandler) ApproveAsset(c *gin.Context) {
	if err := h.adminService.Approve(c.Request.Context(), currentActor(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	h.GetAllAssets(c)
}

// RejectAsset handles PATCH /admin/assets/:id/reject
// @Summary      Send an asset for replacement
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Asset ID"
// @Success      200  {object}  response.Response{data=view.List[model.Asset]}
// @Router       /admin/assets/{id}/reject [patch]
func (h *AssetHandler) RejectAsset(c *gin.Context) {
	if err := h.adminService.Reject(c.Request.Context(), currentActor(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	h.GetAllAssets(c)
}

// GetProcurementAssets handles GET /procurement/assets
// @Summary      Assets waiting on procurement
// @Tags         procurement
// @Produce      json
// @Param        search  query     string  false  "Asset code or item name contains"
// @Param        status  query     string  false  "Status filter"
// @Success      200     {object}  response.Response{data=view.List[model.Asset]}
// @Router       /procurement/assets [get]
func (h *AssetHandler) GetProcurementAssets(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.procurementService.List(c.Request.Context(), currentActor(c), bindFilter(c))))
}

// MarkRepairing handles POST /procurement/assets/:id/repairing
// @Summary      Mark an asset as in repair
// @Tags         procurement
// @Produce      json
// @Param        id   path      string  true  "Asset ID"
// @Success      200  {object}  response.Response{data=view.List[model.Asset]}
// @Router       /procurement/assets/{id}/repairing [post]
func (h *AssetHandler) MarkRepairing(c *gin.Context) {
	if err := h.procurementService.MarkRepairing(c.Request.Context(), currentActor(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	h.GetProcurementAssets(c)
}

// MarkReplacing handles POST /procurement/assets/:id/replacing
// @Summary      Mark an asset as being replaced
// @Tags         procurement
// @Produce      json
// @Param        id   path      string  true  "Asset ID"
// @Success      200  {object}  response.Response{data=view.List[model.Asset]}
// @Router       /procurement/assets/{id}/replacing [post]
func (h *AssetHandler) MarkReplacing(c *gin.Context) {
	if err := h.procurementService.MarkReplacing(c.Request.Context(), currentActor(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	h.GetProcurementAssets(c)
}
