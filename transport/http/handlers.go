package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pardee-foods/clockin/core"
	"github.com/pardee-foods/clockin/service"
)

// defaultAdminPassword is used by the bootstrap path when the request omits
// a password, so a fresh deployment can be initialized with a single call.
const defaultAdminPassword = "Admin123!"

// AuthHandler exposes password login and account management endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type createUserRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password"`
	Department string `json:"department"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type userResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

func userToResponse(user *core.User) userResponse {
	return userResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       string(user.Role),
		Department: user.Department,
		Status:     string(user.Status),
		CreatedAt:  user.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrUserInactive):
			c.JSON(http.StatusForbidden, gin.H{"error": "User inactive"})
		case errors.Is(err, core.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userToResponse(user),
	})
}

// ChangePassword handles POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "old_password and new_password are required"})
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), user, req.OldPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Old password is incorrect"})
		case errors.Is(err, service.ErrPasswordTooShort):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// CreateAdmin handles POST /api/auth/admin/create. While no admin exists the
// endpoint is open and creates the first one; once any admin exists the same
// endpoint requires an authenticated admin caller.
func (h *AuthHandler) CreateAdmin(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and email are required"})
		return
	}
	if req.Password == "" {
		req.Password = defaultAdminPassword
	}

	hasAdmin, err := h.authService.HasAdmin(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create admin"})
		return
	}

	if !hasAdmin {
		user, err := h.authService.BootstrapAdmin(c.Request.Context(), req.Name, req.Email, req.Password)
		if err == nil {
			c.JSON(http.StatusCreated, gin.H{"user": userToResponse(user)})
			return
		}
		// Lost a race with another bootstrap call: fall through to the
		// authenticated path below, which rejects the request without a token.
		if !errors.Is(err, core.ErrAdminExists) {
			h.writeCreateUserError(c, err)
			return
		}
	}

	caller, err := h.authService.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		abortWithAuthError(c, err)
		return
	}
	if err := h.authService.Authorize(caller, core.RoleAdmin); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only admins can create new admins"})
		return
	}

	user, err := h.authService.CreateUser(c.Request.Context(),
		req.Name, req.Email, req.Password, core.RoleAdmin, "Management", core.StatusActive)
	if err != nil {
		h.writeCreateUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": userToResponse(user)})
}

// CreateEmployee handles POST /api/auth/admin/employees, admin only
func (h *AuthHandler) CreateEmployee(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and email are required"})
		return
	}

	user, err := h.authService.CreateUser(c.Request.Context(),
		req.Name, req.Email, req.Password, core.RoleEmployee, req.Department, core.StatusActive)
	if err != nil {
		h.writeCreateUserError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": userToResponse(user)})
}

// ListUsers handles GET /api/auth/users, admin and hr only
func (h *AuthHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	out := make([]userResponse, len(users))
	for i, user := range users {
		out[i] = userToResponse(user)
	}

	c.JSON(http.StatusOK, gin.H{"users": out})
}

func (h *AuthHandler) writeCreateUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
	case errors.Is(err, service.ErrPasswordTooShort):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
	}
}
