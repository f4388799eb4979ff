package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ndemidov/campusforum/internal/middleware"
	"github.com/ndemidov/campusforum/internal/services"
	apperrors "github.com/ndemidov/campusforum/pkg/errors"
	"github.com/ndemidov/campusforum/pkg/metrics"
	"github.com/ndemidov/campusforum/pkg/response"
)

// AuthHandler exposes registration, login, and the current-user endpoint.
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth *services.AuthService) (*AuthHandler, error) {
	if auth == nil {
		return nil, errors.New("auth handler: auth service is required")
	}
	return &AuthHandler{auth: auth}, nil
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindAndValidate(c, &req) {
		metrics.Registrations.WithLabelValues("rejected").Inc()
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			metrics.Registrations.WithLabelValues("rejected").Inc()
		} else {
			metrics.Registrations.WithLabelValues("error").Inc()
		}
		response.Error(c, err)
		return
	}

	metrics.Registrations.WithLabelValues("success").Inc()

	response.Success(c, http.StatusCreated, gin.H{
		"message": "registration successful",
		"user": gin.H{
			"id":          user.ID,
			"email":       user.Email,
			"is_verified": user.IsVerified,
		},
	})
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	pair, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		response.Error(c, err)
		return
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	response.Success(c, http.StatusOK, pair)
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"id":          user.ID,
		"email":       user.Email,
		"is_verified": user.IsVerified,
	})
}
