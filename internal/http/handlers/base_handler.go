// README: Shared handler utilities (JSON helpers, error mapping).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sawari/internal/modules/ride"
)

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, errorResponse{Error: msg})
}

func writeRideError(c *gin.Context, err error) {
	switch err {
	case ride.ErrNotFound:
		writeError(c, http.StatusNotFound, err.Error())
	case ride.ErrNotOwner:
		writeError(c, http.StatusForbidden, err.Error())
	case ride.ErrVehicleRequired, ride.ErrBadRequest:
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
