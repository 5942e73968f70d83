package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	billingdomain "github.com/chapinas/facturacloud/internal/billing/domain"
	catalogdomain "github.com/chapinas/facturacloud/internal/catalog/domain"
	ingestdomain "github.com/chapinas/facturacloud/internal/ingest/domain"
	invoicedomain "github.com/chapinas/facturacloud/internal/invoice/domain"
	ledgerdomain "github.com/chapinas/facturacloud/internal/ledger/domain"
	registrydomain "github.com/chapinas/facturacloud/internal/registry/domain"
	reportsdomain "github.com/chapinas/facturacloud/internal/reports/domain"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// The service errors fall into three kinds: bad input, missing entity and
// state conflict. Handlers attach errors to the gin context; this
// middleware maps the kind to the status code.
var (
	validationErrors = []error{
		catalogdomain.ErrInvalidKind,
		catalogdomain.ErrInvalidPrice,
		catalogdomain.ErrInvalidQuantity,
		registrydomain.ErrInvalidNIT,
		registrydomain.ErrInvalidState,
		registrydomain.ErrMissingAccessKey,
		ledgerdomain.ErrInvalidHours,
		billingdomain.ErrInvalidPeriod,
		ingestdomain.ErrMalformedXML,
		ingestdomain.ErrInvalidDate,
		reportsdomain.ErrUnknownAnalysis,
	}
	notFoundErrors = []error{
		catalogdomain.ErrResourceNotFound,
		catalogdomain.ErrCategoryNotFound,
		catalogdomain.ErrConfigNotFound,
		registrydomain.ErrClientNotFound,
		registrydomain.ErrInstanceNotFound,
		ledgerdomain.ErrClientNotFound,
		ledgerdomain.ErrInstanceNotFound,
		invoicedomain.ErrNotFound,
	}
	conflictErrors = []error{
		registrydomain.ErrNITExists,
		registrydomain.ErrDuplicateInstance,
		registrydomain.ErrInstanceCancelled,
		catalogdomain.ErrResourceInUse,
		catalogdomain.ErrCategoryNotEmpty,
	}
)

var ErrInvalidRequest = errors.New("invalid_request")

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	if errors.Is(err, ErrInvalidRequest) {
		return http.StatusBadRequest, errorPayload{Type: "validation_error", Message: err.Error()}
	}
	if matchesAny(err, validationErrors) {
		return http.StatusBadRequest, errorPayload{Type: "validation_error", Message: err.Error()}
	}
	if matchesAny(err, notFoundErrors) {
		return http.StatusNotFound, errorPayload{Type: "not_found", Message: err.Error()}
	}
	if matchesAny(err, conflictErrors) {
		return http.StatusConflict, errorPayload{Type: "conflict", Message: err.Error()}
	}
	return http.StatusInternalServerError, errorPayload{Type: "internal_error", Message: "internal server error"}
}

func matchesAny(err error, sentinels []error) bool {
	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
