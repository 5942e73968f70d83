package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// IngestConfiguration accepts a raw XML configuration feed.
func (s *Server) IngestConfiguration(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		AbortWithError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return
	}

	result, err := s.ingestSvc.Configuration(c.Request.Context(), body)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "configuration processed",
		"data":    result,
	})
}

// IngestConsumption accepts a raw XML usage feed.
func (s *Server) IngestConsumption(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		AbortWithError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return
	}

	processed, err := s.ingestSvc.Consumption(c.Request.Context(), body)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.obsMetrics.RecordsIngested(processed)

	c.JSON(http.StatusOK, gin.H{
		"message": "consumption processed",
		"data":    gin.H{"records_created": processed},
	})
}
