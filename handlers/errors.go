package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"cardscore/middleware"
	"cardscore/scoring"
	"cardscore/services"

	"github.com/gin-gonic/gin"
)

// respondError writes err as {"error": ...} with the status its kind maps to.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[%s] %s %s failed: %v", middleware.GetRequestID(c), c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrDuplicateName):
		return http.StatusConflict
	case errors.Is(err, services.ErrDuplicateOrInvalidName),
		errors.Is(err, services.ErrInvalidPlayers),
		errors.Is(err, services.ErrInvalidTargetScore),
		errors.Is(err, services.ErrPlayerHasHistory),
		errors.Is(err, scoring.ErrUnknownGameType),
		errors.Is(err, scoring.ErrRoundNumberMismatch),
		errors.Is(err, scoring.ErrIncompleteScores),
		errors.Is(err, scoring.ErrInvalidScoreValue),
		errors.Is(err, scoring.ErrGameAlreadyCompleted),
		errors.Is(err, scoring.ErrRoundOutOfRange),
		errors.Is(err, scoring.ErrUnknownPlayer):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func parseID(c *gin.Context, what string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + what + " ID"})
		return 0, false
	}
	return uint(id), true
}
