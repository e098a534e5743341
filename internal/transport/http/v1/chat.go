package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nueker/nueker/internal/domain"
)

type chatRequest struct {
	Content   string `json:"content"`
	SessionID string `json:"sessionId"`
}

// Chat runs one chat turn and returns the assistant reply.
// POST /api/chat
func (h *Handler) Chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}

	reply, err := h.service.HandleTurn(c.Request().Context(), req.SessionID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyContent):
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Content must not be empty"})
		case errors.Is(err, domain.ErrSessionNotFound):
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid session"})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to process message"})
		}
	}

	return c.JSON(http.StatusOK, reply)
}
