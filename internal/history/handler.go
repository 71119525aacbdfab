package history

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"SAC-backend/internal/platform/apperr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	// GET /history — the student history table
	r.GET("/history", h.QueryHistory)
	// GET /history/borrowers — checkout form autocomplete
	r.GET("/history/borrowers", h.ListBorrowers)
}

func (h *Handler) QueryHistory(c *gin.Context) {
	f := Filter{
		Query:  c.Query("q"),
		Status: c.Query("status"),
	}
	p := Page{
		Limit:  parseIntDefault(c.Query("limit"), 50),
		Offset: parseIntDefault(c.Query("offset"), 0),
		Order:  c.DefaultQuery("order", "desc"),
	}

	items, total, err := h.svc.QueryHistory(c.Request.Context(), f, p)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

func (h *Handler) ListBorrowers(c *gin.Context) {
	items, err := h.svc.ListBorrowers(c.Request.Context(), c.Query("name"))
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
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
