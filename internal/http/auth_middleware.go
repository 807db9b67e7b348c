package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pedroaba/fono-api-c317/internal/domain"
	"github.com/pedroaba/fono-api-c317/internal/service"
)

const (
	sessionCookieName = "session"
	currentSessionKey = "current_session"
	currentUserKey    = "current_user"
)

// RequireAuth resolve o token uma única vez por request e guarda sessão e
// usuário no contexto do gin. Handlers leem via CurrentSession/CurrentUser,
// nunca re-resolvem. Qualquer falha vira 401 sem corpo, sem distinguir o
// motivo.
func RequireAuth(logger *zap.Logger, auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, user, err := auth.Identity(c.Request.Context(), sessionToken(c))
		if err != nil {
			if !errors.Is(err, service.ErrNoActiveSession) {
				logger.Error("session resolution failed", zap.Error(err))
			}
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set(currentSessionKey, session)
		c.Set(currentUserKey, user)
		c.Next()
	}
}

// sessionToken extrai o bearer token do cookie ou, para clientes fora do
// navegador, do header de mesmo nome.
func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(sessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	return strings.TrimSpace(c.GetHeader(sessionCookieName))
}

// CurrentSession obtém a sessão resolvida pelo RequireAuth.
func CurrentSession(c *gin.Context) (domain.Session, bool) {
	val, ok := c.Get(currentSessionKey)
	if !ok {
		return domain.Session{}, false
	}
	session, ok := val.(domain.Session)
	return session, ok
}

// CurrentUser obtém o usuário resolvido pelo RequireAuth.
func CurrentUser(c *gin.Context) (domain.User, bool) {
	val, ok := c.Get(currentUserKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := val.(domain.User)
	return user, ok
}
