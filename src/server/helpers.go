package server

import (
	"errors"
	"net/http"

	"live-indices/src/helpers"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------

// errorStatus maps pipeline errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, helpers.ErrUnknownEntity):
		return http.StatusNotFound
	case helpers.Category(err) == "validation":
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// -----------------------------------------------------------------------------

func errorMessage(err error) gin.H {
	return gin.H{"type": "ERROR", "error": err.Error()}
}

// -----------------------------------------------------------------------------

func writeError(c *gin.Context, err error) {
	c.JSON(errorStatus(err), errorMessage(err))
}
