package handler

import (
	"errors"
	"time"

	appidentity "github.com/backoffice/backend/internal/application/identity"
	domain "github.com/backoffice/backend/internal/domain/identity"
	"github.com/backoffice/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler serves login, logout and session introspection.
type AuthHandler struct {
	BaseHandler
	auth *appidentity.AuthService
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *appidentity.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterPublicRoutes registers routes that do not require a session.
func (h *AuthHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
}

// RegisterRoutes registers the authenticated session routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/logout", h.Logout)
	rg.GET("/auth/me", h.Me)
}

// UserResponse is the API shape of a back office user.
type UserResponse struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	GroupRole   string     `json:"group_role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		GroupRole:   string(u.GroupRole),
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input appidentity.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	input.ClientIP = c.ClientIP()

	session, err := h.auth.Login(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, appidentity.ErrBadCredentials) {
			h.Unauthorized(c, err.Error())
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"token":      session.Token.Value,
		"expires_at": session.Token.ExpiresAt,
		"user":       toUserResponse(session.User),
	})
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		h.Unauthorized(c, "no active session")
		return
	}
	if err := h.auth.Logout(c.Request.Context(), claims); err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMessage(c, "logged out", nil)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		h.Unauthorized(c, "no active session")
		return
	}

	user, err := h.auth.CurrentUser(c.Request.Context(), claims)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toUserResponse(user))
}
