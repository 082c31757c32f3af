package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pardee-foods/clockin/core"
	"github.com/pardee-foods/clockin/service"
)

// WebAuthnHandler exposes the registration and authentication ceremonies.
// Registration endpoints require a session token; the login ceremony is
// public and identifies the user by a userId query parameter.
type WebAuthnHandler struct {
	webAuthnService *service.WebAuthnService
	authService     *service.AuthService
}

// NewWebAuthnHandler creates a new webauthn handler
func NewWebAuthnHandler(webAuthnService *service.WebAuthnService, authService *service.AuthService) *WebAuthnHandler {
	return &WebAuthnHandler{
		webAuthnService: webAuthnService,
		authService:     authService,
	}
}

// RegisterBegin handles GET /api/webauthn/register/begin
func (h *WebAuthnHandler) RegisterBegin(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	options, err := h.webAuthnService.BeginRegistration(c.Request.Context(), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to begin registration"})
		return
	}

	c.JSON(http.StatusOK, options)
}

// RegisterFinish handles POST /api/webauthn/register/finish
func (h *WebAuthnHandler) RegisterFinish(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	_, err := h.webAuthnService.FinishRegistration(c.Request.Context(), user, c.Request.Body)
	if err != nil {
		writeCeremonyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"verified": true,
		"message":  "Registration successful",
	})
}

// LoginBegin handles GET /api/webauthn/login/begin?userId=...
func (h *WebAuthnHandler) LoginBegin(c *gin.Context) {
	user, ok := h.lookupUser(c)
	if !ok {
		return
	}

	options, err := h.webAuthnService.BeginLogin(c.Request.Context(), user)
	if err != nil {
		// Whether the user lacks credentials is not revealed to unauthenticated
		// callers
		if errors.Is(err, core.ErrNoCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to begin authentication"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to begin authentication"})
		return
	}

	c.JSON(http.StatusOK, options)
}

// LoginFinish handles POST /api/webauthn/login/finish?userId=...
func (h *WebAuthnHandler) LoginFinish(c *gin.Context) {
	user, ok := h.lookupUser(c)
	if !ok {
		return
	}

	if err := h.webAuthnService.FinishLogin(c.Request.Context(), user, c.Request.Body); err != nil {
		writeCeremonyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"verified": true,
		"message":  "Verification successful",
	})
}

// RegistrationStatus handles GET /api/webauthn/registration-status
func (h *WebAuthnHandler) RegistrationStatus(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	registered, err := h.webAuthnService.IsRegistered(c.Request.Context(), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check registration status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"registered": registered})
}

// lookupUser resolves the userId query parameter on the public login
// endpoints. An unknown user gets the same response as a missing parameter.
func (h *WebAuthnHandler) lookupUser(c *gin.Context) (*core.User, bool) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return nil, false
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to begin authentication"})
		return nil, false
	}

	return user, true
}

// writeCeremonyError reports ceremony failures to the client. Verification
// failures are deliberately generic; the specific check that failed is only
// logged server-side.
func writeCeremonyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrChallengeNotFound):
		c.JSON(http.StatusBadRequest, gin.H{
			"verified": false,
			"error":    "Challenge missing or expired",
		})
	case errors.Is(err, core.ErrCredentialNotFound),
		errors.Is(err, core.ErrVerificationFailed),
		errors.Is(err, core.ErrClonedAuthenticator):
		c.JSON(http.StatusBadRequest, gin.H{
			"verified": false,
			"error":    "Verification failed",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"verified": false,
			"error":    "Verification failed",
		})
	}
}
