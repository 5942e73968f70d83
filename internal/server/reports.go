package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	reportsdomain "github.com/chapinas/facturacloud/internal/reports/domain"
)

func (s *Server) InvoiceReport(c *gin.Context) {
	number := c.Param("number")
	doc, err := s.reportsSvc.InvoiceDetail(c.Request.Context(), number)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "invoice_"+number+".pdf"))
	c.Data(http.StatusOK, "application/pdf", doc)
}

func (s *Server) SalesReport(c *gin.Context) {
	from, to, ok := s.dateRange(c)
	if !ok {
		return
	}
	kind := reportsdomain.AnalysisKind(c.Query("kind"))

	doc, err := s.reportsSvc.SalesAnalysis(c.Request.Context(), kind, from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "sales_analysis_"+string(kind)+".pdf"))
	c.Data(http.StatusOK, "application/pdf", doc)
}
