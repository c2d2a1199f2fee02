package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"

	"catalog-browser/internal/client"
)

// statusFor maps a catalog error to the HTTP status returned to callers.
func statusFor(err error) int {
	switch {
	case errors.Is(err, client.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, client.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)

	msg := "failed to reach catalog"
	switch status {
	case http.StatusBadRequest, http.StatusNotFound:
		msg = err.Error()
	}
	c.JSON(status, gin.H{"error": msg})
}
