package assets

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"SAC-backend/internal/platform/apperr"
)

type Handler struct{ svc *Service }

// RegisterRoutes wires the registry endpoints. Destructive operations go
// on the admin group.
func RegisterRoutes(r gin.IRoutes, admin gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/assets", h.ListAssets)
	r.GET("/assets/categories", h.ListCategories)
	r.GET("/assets/:asset_id", h.GetAsset)
	r.POST("/assets", h.CreateAsset)
	r.PATCH("/assets/:asset_id", h.UpdateAsset)

	admin.DELETE("/assets/:asset_id", h.DeleteAsset)
	admin.DELETE("/assets", h.DeleteAssets)
}

func (h *Handler) CreateAsset(c *gin.Context) {
	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeValidation, "invalid json or missing required fields"))
		return
	}

	res, err := h.svc.CreateAsset(c.Request.Context(), req)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}

	c.Header("Location", "/assets/"+res.AssetID)
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) GetAsset(c *gin.Context) {
	res, err := h.svc.GetAsset(c.Request.Context(), c.Param("asset_id"))
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) UpdateAsset(c *gin.Context) {
	var req UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeValidation, "invalid json"))
		return
	}

	res, err := h.svc.UpdateAsset(c.Request.Context(), c.Param("asset_id"), req)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) DeleteAsset(c *gin.Context) {
	if err := h.svc.DeleteAsset(c.Request.Context(), c.Param("asset_id")); err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *Handler) DeleteAssets(c *gin.Context) {
	var req DeleteAssetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeValidation, "invalid json or missing asset_ids"))
		return
	}

	if err := h.svc.DeleteAssets(c.Request.Context(), req.AssetIDs); err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted", "count": len(req.AssetIDs)})
}

func (h *Handler) ListAssets(c *gin.Context) {
	f := AssetFilter{
		Query:  c.Query("q"),
		Status: c.Query("status"),
	}
	p := Page{
		Limit:  parseIntDefault(c.Query("limit"), 50),
		Offset: parseIntDefault(c.Query("offset"), 0),
		Order:  c.DefaultQuery("order", "asc"),
	}

	items, total, err := h.svc.ListAssets(c.Request.Context(), f, p)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func (h *Handler) ListCategories(c *gin.Context) {
	out, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

func parseIntDefault(s string, d int) int {
	if s == "" {
		return d
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}
