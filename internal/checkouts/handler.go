package checkouts

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"SAC-backend/internal/platform/apperr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	// POST /checkouts — issue assets to a borrower
	r.POST("/checkouts", h.Checkout)
	// GET /checkouts — open loans (the check-in table)
	r.GET("/checkouts", h.ListOpenLoans)
	// POST /checkins — return loans
	r.POST("/checkins", h.Checkin)
	// GET /assets/:asset_id/open-loan
	r.GET("/assets/:asset_id/open-loan", h.OpenLoanFor)
}

func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeValidation, "invalid json or missing required fields"))
		return
	}

	res, err := h.svc.Checkout(c.Request.Context(), req)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) Checkin(c *gin.Context) {
	var req CheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apperr.Body(apperr.CodeValidation, "invalid json or missing checkout_ids"))
		return
	}

	res, err := h.svc.Checkin(c.Request.Context(), req)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) OpenLoanFor(c *gin.Context) {
	res, err := h.svc.OpenLoanFor(c.Request.Context(), c.Param("asset_id"))
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListOpenLoans(c *gin.Context) {
	p := Page{
		Limit:  parseIntDefault(c.Query("limit"), 50),
		Offset: parseIntDefault(c.Query("offset"), 0),
		Order:  c.DefaultQuery("order", "desc"),
	}

	items, total, err := h.svc.ListOpenLoans(c.Request.Context(), c.Query("q"), p)
	if err != nil {
		c.JSON(apperr.ToHTTPStatus(err), apperr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
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
