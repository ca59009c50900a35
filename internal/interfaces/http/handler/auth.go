package handler

import (
	"net/http"
	"time"

	identityapp "github.com/fieldcollect/backend/internal/application/identity"
	"github.com/fieldcollect/backend/internal/infrastructure/config"
	"github.com/fieldcollect/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// AuthResponse is returned by signup and login
type AuthResponse struct {
	dto.Response
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	User      dto.UserResponse `json:"user"`
}

// MeResponse is returned by the current-user endpoint
type MeResponse struct {
	dto.Response
	User dto.UserResponse `json:"user"`
}

// AuthHandler handles signup, login, logout and the current user
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
	cookie      config.CookieConfig
	maxAge      time.Duration
}

// NewAuthHandler creates a new auth handler. Input errors on these routes are
// answered with 401.
func NewAuthHandler(authService *identityapp.AuthService, cookie config.CookieConfig, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		BaseHandler: BaseHandler{statusFor: dto.WithOverrides(dto.CredentialStatusOverrides)},
		authService: authService,
		cookie:      cookie,
		maxAge:      sessionTTL,
	}
}

// Signup handles POST /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Register(c.Request.Context(), identityapp.RegisterInput{
		Name:     req.DisplayName(),
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.startSession(c, result, "User is created")
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identityapp.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.startSession(c, result, "Logged in Successfully")
}

// Logout handles POST /auth/logout. Tokens are stateless, so this only
// removes the cookie from the browser.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setCookie(c, "", -1)
	c.JSON(http.StatusOK, dto.OK("Logged out"))
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	user, err := h.authService.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MeResponse{
		Response: dto.Response{Success: true},
		User:     toUserResponse(*user),
	})
}

func (h *AuthHandler) startSession(c *gin.Context, result *identityapp.AuthResult, message string) {
	h.setCookie(c, result.Token, int(h.maxAge.Seconds()))
	c.JSON(http.StatusOK, AuthResponse{
		Response:  dto.OK(message),
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      toUserResponse(result.User),
	})
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(sameSiteMode(h.cookie.SameSite))
	c.SetCookie(h.cookie.Name, value, maxAge, h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
}

func sameSiteMode(mode string) http.SameSite {
	switch mode {
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}
