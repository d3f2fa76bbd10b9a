package handlers

import (
	"net/http"

	"safi-kitchen/internal/models"
	"safi-kitchen/internal/services"
	"safi-kitchen/internal/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login checks the admin passkey. A mismatch returns the "invalid key" state;
// a match hands back the session token the admin views present.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Passkey)
	if err != nil {
		if err == services.ErrInvalidPasskey {
			c.JSON(http.StatusUnauthorized, utils.ErrorResponse("Invalid system key", ""))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Login failed", err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Session granted", gin.H{
		"token": token,
	}))
}

// Logout clears the session flag.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetHeader("X-Admin-Token")
	if token == "" {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Session token is required", ""))
		return
	}

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Logout failed", err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Session cleared", nil))
}
