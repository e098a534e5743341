package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nueker/nueker/internal/domain"
)

// GetMessages retrieves the ordered message log for a session.
// GET /api/chat/:sessionId/messages
func (h *Handler) GetMessages(c echo.Context) error {
	sessionID := c.Param("sessionId")

	messages, err := h.service.ListMessages(c.Request().Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Session not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to retrieve messages"})
	}

	return c.JSON(http.StatusOK, messages)
}
