package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	catalogdomain "github.com/chapinas/facturacloud/internal/catalog/domain"
)

type createResourceRequest struct {
	Name         string          `json:"name" binding:"required"`
	Abbreviation string          `json:"abbreviation"`
	UnitMetric   string          `json:"unit_metric"`
	Kind         string          `json:"kind" binding:"required"`
	PricePerHour decimal.Decimal `json:"price_per_hour"`
}

func (s *Server) CreateResource(c *gin.Context) {
	var req createResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return
	}

	resource, err := s.catalogSvc.CreateResource(c.Request.Context(), catalogdomain.CreateResourceRequest{
		Name:         req.Name,
		Abbreviation: req.Abbreviation,
		UnitMetric:   req.UnitMetric,
		Kind:         req.Kind,
		PricePerHour: req.PricePerHour,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resource})
}

func (s *Server) ListResources(c *gin.Context) {
	resources, err := s.catalogSvc.ListResources(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resources})
}

func (s *Server) GetResource(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	resource, err := s.catalogSvc.ResourceByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resource})
}

func (s *Server) DeleteResource(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	if err := s.catalogSvc.DeleteResource(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type createCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Workload    string `json:"workload"`
}

func (s *Server) CreateCategory(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return
	}

	category, err := s.catalogSvc.CreateCategory(c.Request.Context(), catalogdomain.CreateCategoryRequest{
		Name:        req.Name,
		Description: req.Description,
		Workload:    req.Workload,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": category})
}

func (s *Server) ListCategories(c *gin.Context) {
	categories, err := s.catalogSvc.ListCategories(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

func (s *Server) GetCategory(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	category, err := s.catalogSvc.CategoryByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": category})
}

func (s *Server) DeleteCategory(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	if err := s.catalogSvc.DeleteCategory(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type configurationResourceRequest struct {
	ResourceID int             `json:"resource_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity"`
}

type createConfigurationRequest struct {
	CategoryID  int                            `json:"category_id" binding:"required"`
	Name        string                         `json:"name" binding:"required"`
	Description string                         `json:"description"`
	Resources   []configurationResourceRequest `json:"resources"`
}

func (s *Server) CreateConfiguration(c *gin.Context) {
	var req createConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, fmt.Errorf("%w: %v", ErrInvalidRequest, err))
		return
	}

	domainReq := catalogdomain.CreateConfigurationRequest{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
	}
	for _, r := range req.Resources {
		domainReq.Resources = append(domainReq.Resources, catalogdomain.ResourceQuantityRequest{
			ResourceID: r.ResourceID,
			Quantity:   r.Quantity,
		})
	}

	configuration, err := s.catalogSvc.CreateConfiguration(c.Request.Context(), domainReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": configuration})
}

func (s *Server) ListConfigurations(c *gin.Context) {
	configurations, err := s.catalogSvc.ListConfigurations(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": configurations})
}

func (s *Server) GetConfiguration(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	configuration, err := s.catalogSvc.ConfigurationByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": configuration})
}

func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		AbortWithError(c, fmt.Errorf("%w: %s must be an integer", ErrInvalidRequest, name))
		return 0, false
	}
	return v, true
}
