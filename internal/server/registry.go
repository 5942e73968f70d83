package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	registrydomain "github.com/chapinas/facturacloud/internal/registry/domain"
	"github.com/chapinas/facturacloud/internal/validate"
)

type createClientRequest struct {
	NIT       string `json:"nit" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Username  string `json:"username"`
	AccessKey string `json:"access_key" binding:"required"`
	Address   string `json:"address"`
	Email     string `json:"email"`
}

func (s *Server) CreateClient(c *gin.Context) {
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return
	}

	client, err := s.registrySvc.CreateClient(c.Request.Context(), registrydomain.CreateClientRequest{
		NIT:       req.NIT,
		Name:      req.Name,
		Username:  req.Username,
		AccessKey: req.AccessKey,
		Address:   req.Address,
		Email:     req.Email,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": client})
}

func (s *Server) ListClients(c *gin.Context) {
	clients, err := s.registrySvc.ListClients(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": clients})
}

func (s *Server) GetClient(c *gin.Context) {
	client, err := s.registrySvc.ClientByNIT(c.Request.Context(), c.Param("nit"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": client})
}

func (s *Server) DeleteClient(c *gin.Context) {
	if err := s.registrySvc.DeleteClient(c.Request.Context(), c.Param("nit")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListClientInvoices(c *gin.Context) {
	invoices, err := s.invoiceSvc.ByClient(c.Request.Context(), c.Param("nit"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": invoices})
}

type createInstanceRequest struct {
	ClientNIT       string `json:"client_nit" binding:"required"`
	ConfigurationID int    `json:"configuration_id" binding:"required"`
	Name            string `json:"name" binding:"required"`
	StartDate       string `json:"start_date" binding:"required"`
}

func (s *Server) CreateInstance(c *gin.Context) {
	var req createInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return
	}
	startDate, ok := validate.ExtractDate(req.StartDate)
	if !ok {
		AbortWithError(c, fmt.Errorf("%w: start_date must contain a dd/mm/yyyy date", ErrInvalidRequest))
		return
	}

	instance, err := s.registrySvc.CreateInstance(c.Request.Context(), registrydomain.CreateInstanceRequest{
		ClientNIT:       req.ClientNIT,
		ConfigurationID: req.ConfigurationID,
		Name:            req.Name,
		StartDate:       startDate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": instance})
}

func (s *Server) ListInstances(c *gin.Context) {
	instances, err := s.registrySvc.ListInstances(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": instances})
}

type cancelInstanceRequest struct {
	ClientNIT  string `json:"client_nit" binding:"required"`
	InstanceID int    `json:"instance_id" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
}

func (s *Server) CancelInstance(c *gin.Context) {
	var req cancelInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return
	}
	endDate, ok := validate.ExtractDate(req.EndDate)
	if !ok {
		AbortWithError(c, fmt.Errorf("%w: end_date must contain a dd/mm/yyyy date", ErrInvalidRequest))
		return
	}

	instance, err := s.registrySvc.CancelInstance(c.Request.Context(), req.ClientNIT, req.InstanceID, endDate)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": instance})
}
