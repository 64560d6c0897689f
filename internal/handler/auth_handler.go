package handler

import (
	"net/http"
	"time"

	"krushak/internal/middleware"
	"krushak/internal/models"
	"krushak/internal/service"
	"krushak/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RefreshTokenCookie is where browser clients carry the refresh token.
const RefreshTokenCookie = "refreshToken"

const oauthStateCookie = "oauthState"

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService   service.AuthServicer
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthServicer, accessExpiry, refreshExpiry time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
		secureCookies: secureCookies,
	}
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Registration payload"
// @Success 201 {object} response.Response{data=models.AuthResponse}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid registration payload", bindingErrors(err))
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setAuthCookies(c, resp)
	response.Created(c, "user registered successfully", resp)
}

// Login godoc
// @Summary Log in with username and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Response{data=models.AuthResponse}
// @Failure 401 {object} response.Response
// @Router /users/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid login payload", bindingErrors(err))
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setAuthCookies(c, resp)
	response.Success(c, "logged in successfully", resp)
}

// Refresh rotates the refresh token and issues a new access token. The token
// comes from the cookie when present, otherwise from the body.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token := h.refreshTokenFrom(c)
	if token == "" {
		response.Unauthorized(c, "refresh token is missing")
		return
	}

	resp, err := h.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		h.clearAuthCookies(c)
		respondError(c, err)
		return
	}

	h.setAuthCookies(c, resp)
	response.Success(c, "token refreshed successfully", resp)
}

// Logout revokes the current session and clears cookies.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := h.refreshTokenFrom(c); token != "" {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			respondError(c, err)
			return
		}
	}

	h.clearAuthCookies(c)
	response.Success(c, "logged out successfully", nil)
}

// LogoutAll revokes every session of the authenticated user.
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized user request")
		return
	}

	if err := h.authService.LogoutAll(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	h.clearAuthCookies(c)
	response.Success(c, "logged out from all devices", nil)
}

// ForgotPassword starts the reset flow. Always reports success so the
// endpoint cannot probe which emails exist.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid payload", bindingErrors(err))
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, "if the email exists, a reset link has been sent", nil)
}

// ResetPassword completes the reset flow with the token from the URL.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid payload", bindingErrors(err))
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, "password has been reset, please log in", nil)
}

// GoogleLogin redirects the browser to the Google consent page.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state := uuid.NewString()
	url := h.authService.OAuthLoginURL(state)
	if url == "" {
		response.BadRequest(c, "google login is not configured")
		return
	}

	c.SetCookie(oauthStateCookie, state, 300, "/", "", h.secureCookies, true)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback completes the OAuth flow.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		response.Unauthorized(c, "oauth state mismatch")
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.secureCookies, true)

	code := c.Query("code")
	if code == "" {
		response.BadRequest(c, "authorization code is missing")
		return
	}

	resp, err := h.authService.OAuthCallback(c.Request.Context(), code)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setAuthCookies(c, resp)
	response.Success(c, "logged in with google", resp)
}

func (h *AuthHandler) refreshTokenFrom(c *gin.Context) string {
	if cookie, err := c.Cookie(RefreshTokenCookie); err == nil && cookie != "" {
		return cookie
	}

	var req models.RefreshRequest
	if err := c.ShouldBindJSON(&req); err == nil {
		return req.RefreshToken
	}
	return ""
}

func (h *AuthHandler) setAuthCookies(c *gin.Context, resp *models.AuthResponse) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, resp.AccessToken, int(h.accessExpiry.Seconds()), "/", "", h.secureCookies, true)
	c.SetCookie(RefreshTokenCookie, resp.RefreshToken, int(h.refreshExpiry.Seconds()), "/", "", h.secureCookies, true)
}

func (h *AuthHandler) clearAuthCookies(c *gin.Context) {
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", h.secureCookies, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", h.secureCookies, true)
}
