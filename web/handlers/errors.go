package handlers

import (
	"net/http"

	apperrors "canned-answers/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondWithError logs the technical error and returns a user-friendly message
func respondWithError(c *gin.Context, statusCode int, technicalError error, userMessage string, logger *zap.Logger, fields ...zap.Field) {
	// Log technical error with context
	if logger != nil {
		fields = append(fields, zap.Error(technicalError))
		logger.Error("Request failed", fields...)
	}

	// Return user-friendly message
	c.JSON(statusCode, gin.H{"error": userMessage})
}

// respondWithClientError returns a client error (no logging needed for validation errors)
func respondWithClientError(c *gin.Context, statusCode int, userMessage string) {
	c.JSON(statusCode, gin.H{"error": userMessage})
}

// respondWithDomainError maps cache outcomes to HTTP statuses 1:1. Not
// found and invalid query are client-facing results, not server failures;
// everything else is an internal error worth logging.
func respondWithDomainError(c *gin.Context, err error, logger *zap.Logger, fields ...zap.Field) {
	switch {
	case apperrors.IsNotFound(err):
		respondWithClientError(c, http.StatusNotFound, "No cached answer")
	case apperrors.IsInvalidQuery(err):
		respondWithClientError(c, http.StatusBadRequest, "Question contains no matchable words")
	case apperrors.IsInvalidInput(err):
		respondWithClientError(c, http.StatusBadRequest, err.Error())
	default:
		respondWithError(c, http.StatusInternalServerError, err, "Internal server error", logger, fields...)
	}
}
