package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/north-cloud/job-tracker/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/job-tracker/internal/domain"
)

// Error codes returned in the "code" field of error bodies.
const (
	CodeValidationFailed = "validation.failed"
	CodeNotAuthenticated = "auth.not_authenticated"
	CodeNotFound         = "application.not_found"
	CodeAlreadyExists    = "application.already_exists"
	CodeConflict         = "application.conflict"
	CodeInternal         = "internal"
)

const notFoundMessage = "Not found"

// respondError writes the error body for err. Failures outside the domain taxonomy
// are logged and reported as 500 without detail.
func respondError(c *gin.Context, err error) {
	var domainErr *domain.Error
	if !errors.As(err, &domainErr) {
		logger.FromContext(c.Request.Context()).Error("Request failed",
			logger.String("path", c.FullPath()),
			logger.Error(err),
		)
		writeError(c, http.StatusInternalServerError, CodeInternal, "Internal server error")
		return
	}

	switch {
	case domain.IsValidation(domainErr):
		writeError(c, http.StatusBadRequest, CodeValidationFailed, domainErr.Error())
	case domainErr.Kind == domain.KindUnauthenticated:
		writeError(c, http.StatusUnauthorized, CodeNotAuthenticated, domainErr.Error())
	case domainErr.Kind == domain.KindNotFound:
		writeError(c, http.StatusNotFound, CodeNotFound, notFoundMessage)
	case domainErr.Kind == domain.KindAlreadyExists:
		writeError(c, http.StatusConflict, CodeAlreadyExists, domainErr.Error())
	case domainErr.Kind == domain.KindConflict:
		writeError(c, http.StatusConflict, CodeConflict, domainErr.Error())
	default:
		writeError(c, http.StatusInternalServerError, CodeInternal, "Internal server error")
	}
}

// respondBindError reports a request body that failed decoding or binding rules.
func respondBindError(c *gin.Context, err error) {
	writeError(c, http.StatusBadRequest, CodeValidationFailed, err.Error())
}

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message, "code": code})
}
