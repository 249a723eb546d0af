package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"messagely/internal/auth"
	"messagely/internal/models"
	"messagely/internal/telemetry"
)

// AuthHandler serves login and registration.
type AuthHandler struct {
	auth  *auth.Service
	audit *telemetry.AuditEmitter
}

// NewAuthHandler builds an AuthHandler. audit may be nil.
func NewAuthHandler(svc *auth.Service, audit *telemetry.AuditEmitter) *AuthHandler {
	return &AuthHandler{auth: svc, audit: audit}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login returns the login stamp and a fresh token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, models.ErrInvalidCredentials)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			h.audit.Emit(c.Request.Context(), "WARN", "login rejected", requestIDFromContext(c), optional(req.Username))
		}
		respondError(c, err)
		return
	}

	h.audit.Emit(c.Request.Context(), "INFO", "login succeeded", requestIDFromContext(c), optional(req.Username))
	c.JSON(http.StatusOK, result)
}

// Register creates a user and returns a token for them.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, models.NewValidationError("invalid request body"))
		return
	}

	token, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit.Emit(c.Request.Context(), "INFO", "user registered", requestIDFromContext(c), optional(req.Username))
	c.JSON(http.StatusCreated, gin.H{"token": token})
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
