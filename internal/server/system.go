package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// DumpData returns the full entity graph as one document, mirroring what
// the snapshot store persists.
func (s *Server) DumpData(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.store.Snapshot()})
}

// Reset clears every entity and restarts the id counters.
func (s *Server) Reset(c *gin.Context) {
	if err := s.store.Reset(c.Request.Context()); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "all data cleared"})
}
