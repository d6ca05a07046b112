package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Vinnycalora/Reliabot/internal/service"
)

// abortWithError maps domain errors onto HTTP statuses. Storage failures
// are logged with context here so they are never silently swallowed.
func abortWithError(c *gin.Context, log zerolog.Logger, err error) {
	var (
		validation *service.ValidationError
		forbidden  *service.ForbiddenError
		notFound   *service.NotFoundError
		storage    *service.StorageError
	)
	switch {
	case errors.As(err, &validation):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.As(err, &forbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.As(err, &notFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &storage):
		log.Error().Err(err).Str("path", c.FullPath()).Msg("storage failure")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
