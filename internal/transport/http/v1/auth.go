package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nueker/nueker/internal/domain"
)

type authRequest struct {
	AccessKey string `json:"accessKey"`
}

// Authenticate validates the shared access key and issues a session id.
// POST /api/auth
func (h *Handler) Authenticate(c echo.Context) error {
	var req authRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}

	session, err := h.service.Authenticate(c.Request().Context(), req.AccessKey)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAccessKey) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid access key"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Authentication failed"})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message":   "Authentication successful",
		"sessionId": session.ID,
	})
}
