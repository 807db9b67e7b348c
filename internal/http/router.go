package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pedroaba/fono-api-c317/internal/service"
)

// NewRouter configura o router do Gin com middlewares e rotas.
func NewRouter(
	logger *zap.Logger,
	authServ *service.AuthService,
	authH *AuthHandler,
	userH *UserHandler,
	pronounceH *PronounceHandler,
	sessionTestH *SessionTestHandler,
	pronounceTestH *PronounceTestHandler,
	transcriptionH *TranscriptionHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares básicos: logging, recovery e JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	requireAuth := RequireAuth(logger, authServ)

	r.GET("/health", healthCheck)

	api := r.Group("/api/v1")
	api.GET("/health", healthCheck)

	api.POST("/sign-in", authH.SignIn)
	api.GET("/logout", requireAuth, authH.Logout)

	users := api.Group("/users")
	users.POST("", userH.CreateUser)
	users.GET("/me", requireAuth, userH.Me)
	users.GET("", requireAuth, userH.FetchUsers)
	users.GET("/:id", requireAuth, userH.GetUser)
	users.PATCH("/:id", requireAuth, userH.UpdateUser)
	users.DELETE("/:id", requireAuth, userH.DeleteUser)

	pronounces := api.Group("/pronounces")
	pronounces.POST("", pronounceH.Create)
	pronounces.GET("", pronounceH.List)
	pronounces.DELETE("/:id", pronounceH.Delete)

	api.POST("/session-tests", sessionTestH.Create)
	api.GET("/session-tests", sessionTestH.List)
	api.DELETE("/session-tests/:id", sessionTestH.Delete)

	api.POST("/pronounce-tests", pronounceTestH.Create)
	api.GET("/pronounce-tests", pronounceTestH.List)
	api.PATCH("/pronounce-tests/:id", pronounceTestH.Update)
	api.DELETE("/pronounce-tests/:id", pronounceTestH.Delete)

	r.POST("/transcription-test/default", transcriptionH.TestDefault)
	r.GET("/transcription-test/audios", transcriptionH.ListAudios)
	r.POST("/transcription-test/audio/:filename", transcriptionH.TestAudio)

	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// zapLoggerMiddleware cria um middleware simples de logging com zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware força Content-Type: application/json nas
// respostas.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
