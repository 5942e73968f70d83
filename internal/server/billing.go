package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chapinas/facturacloud/internal/validate"
)

func (s *Server) ListConsumption(c *gin.Context) {
	records, err := s.ledgerSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": records})
}

type runBillingRequest struct {
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
}

func (s *Server) RunBilling(c *gin.Context) {
	var req runBillingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return
	}
	periodStart, ok := validate.ExtractDate(req.PeriodStart)
	if !ok {
		AbortWithError(c, fmt.Errorf("%w: period_start must contain a dd/mm/yyyy date", ErrInvalidRequest))
		return
	}
	periodEnd, ok := validate.ExtractDate(req.PeriodEnd)
	if !ok {
		AbortWithError(c, fmt.Errorf("%w: period_end must contain a dd/mm/yyyy date", ErrInvalidRequest))
		return
	}

	invoices, err := s.billingSvc.Run(c.Request.Context(), periodStart, periodEnd)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"invoices_generated": len(invoices),
			"invoices":           invoices,
		},
	})
}

func (s *Server) ListInvoices(c *gin.Context) {
	invoices, err := s.invoiceSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": invoices})
}

func (s *Server) GetInvoice(c *gin.Context) {
	invoice, err := s.invoiceSvc.ByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": invoice})
}

func (s *Server) CategoryRevenue(c *gin.Context) {
	from, to, ok := s.dateRange(c)
	if !ok {
		return
	}
	revenue, err := s.invoiceSvc.RevenueByCategory(c.Request.Context(), from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": revenue})
}

func (s *Server) ResourceRevenue(c *gin.Context) {
	from, to, ok := s.dateRange(c)
	if !ok {
		return
	}
	revenue, err := s.invoiceSvc.RevenueByResource(c.Request.Context(), from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": revenue})
}

func (s *Server) dateRange(c *gin.Context) (time.Time, time.Time, bool) {
	from, okFrom := validate.ExtractDate(c.Query("from"))
	to, okTo := validate.ExtractDate(c.Query("to"))
	if !okFrom || !okTo {
		AbortWithError(c, fmt.Errorf("%w: from and to must be dd/mm/yyyy dates", ErrInvalidRequest))
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
