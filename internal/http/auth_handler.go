package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pedroaba/fono-api-c317/internal/service"
)

// AuthHandler mantém dependências para os endpoints de autenticação.
type AuthHandler struct {
	logger       *zap.Logger
	authServ     *service.AuthService
	limiter      service.SignInRateLimiter
	cookieDomain string
	production   bool
}

func NewAuthHandler(logger *zap.Logger, authServ *service.AuthService, limiter service.SignInRateLimiter, cookieDomain string, production bool) *AuthHandler {
	return &AuthHandler{
		logger:       logger,
		authServ:     authServ,
		limiter:      limiter,
		cookieDomain: cookieDomain,
		production:   production,
	}
}

// SignIn trata POST /sign-in. Credenciais ruins de qualquer tipo respondem
// 401 sem corpo.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid sign-in request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if h.limiter != nil && !h.limiter.Allow(req.Email) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		return
	}

	session, err := h.authServ.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.Status(http.StatusUnauthorized)
			return
		}
		h.logger.Error("sign-in failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sign in"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		sessionCookieName,
		session.ID,
		int(service.SessionMaxAge.Seconds()),
		"/",
		h.cookieDomain,
		h.production,
		true,
	)
	c.Status(http.StatusOK)
}

// Logout trata GET /logout, protegido pelo RequireAuth.
func (h *AuthHandler) Logout(c *gin.Context) {
	session, ok := CurrentSession(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	if err := h.authServ.SignOut(c.Request.Context(), session.ID); err != nil {
		h.logger.Error("logout failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not log out"})
		return
	}

	c.Status(http.StatusNoContent)
}
