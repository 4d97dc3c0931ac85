package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/syedukkashah/university-library/internal/infra/config"
	"github.com/syedukkashah/university-library/internal/transport/http/middleware"
	"github.com/syedukkashah/university-library/internal/usecase"
)

// AuthHandler exposes the admission endpoints: sign-up, sign-in,
// sign-out, and session introspection.
type AuthHandler struct {
	admission *usecase.AdmissionService
	sessions  *usecase.SessionService
	cookieCfg config.SessionSettings
	secure    bool
}

// NewAuthHandler constructs AuthHandler. Cookies carry the Secure flag
// only when secure is true, so local development keeps working over
// plain HTTP.
func NewAuthHandler(admission *usecase.AdmissionService, sessions *usecase.SessionService, cookieCfg config.SessionSettings, secure bool) *AuthHandler {
	return &AuthHandler{
		admission: admission,
		sessions:  sessions,
		cookieCfg: cookieCfg,
		secure:    secure,
	}
}

// RegisterRoutes wires the public admission endpoints. The session
// endpoint requires an authenticated caller and is registered separately.
func (h *AuthHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/sign-up", h.SignUp)
	group.POST("/sign-in", h.SignIn)
	group.POST("/sign-out", h.SignOut)
}

// SignUp registers a new account and signs it in.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	input := usecase.SignUpInput{
		FullName:          req.FullName,
		Email:             req.Email,
		UniversityID:      req.UniversityID,
		Password:          req.Password,
		UniversityCardKey: req.UniversityCard,
	}

	result := h.admission.SignUp(c.Request.Context(), input, middleware.ClientKey(c))
	h.respond(c, result, http.StatusCreated)
}

// SignIn verifies credentials and issues a session cookie.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	result := h.admission.SignIn(c.Request.Context(), req.Email, req.Password, middleware.ClientKey(c))
	h.respond(c, result, http.StatusOK)
}

// SignOut clears the session cookie. Tokens remain valid until expiry;
// there is no server-side revocation list.
func (h *AuthHandler) SignOut(c *gin.Context) {
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, MessageResponse{Message: "signed out"})
}

// Session returns the resolved session of the caller.
func (h *AuthHandler) Session(c *gin.Context) {
	session := middleware.GetSession(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		UserID: session.UserID,
		Email:  session.Email,
		Name:   session.Name,
	})
}

func (h *AuthHandler) respond(c *gin.Context, result usecase.AuthResult, successStatus int) {
	if result.Success {
		h.setSessionCookie(c, result.Token)
		c.JSON(successStatus, AuthResponse{Success: true, Token: result.Token})
		return
	}

	status := http.StatusBadRequest
	switch {
	case result.RateLimited:
		status = http.StatusTooManyRequests
	case result.Error == usecase.ErrTextInvalidCreds:
		status = http.StatusUnauthorized
	case result.Error == usecase.ErrTextUserExists:
		status = http.StatusConflict
	case result.Error == usecase.ErrTextSignInFault || result.Error == usecase.ErrTextSignUpFault:
		status = http.StatusInternalServerError
	}

	c.JSON(status, NewErrorResponse(c, result.Error))
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	maxAge := int(h.cookieCfg.TTL.Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieCfg.CookieName, token, maxAge, "/", "", h.secure, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieCfg.CookieName, "", -1, "/", "", h.secure, true)
}
