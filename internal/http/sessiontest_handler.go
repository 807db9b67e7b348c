package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/pedroaba/fono-api-c317/internal/domain"
	"github.com/pedroaba/fono-api-c317/internal/repository"
)

// SessionTestHandler mantém dependências para os endpoints de session tests.
type SessionTestHandler struct {
	logger       *zap.Logger
	sessionTests repository.SessionTestRepository
	users        repository.UserRepository
}

func NewSessionTestHandler(logger *zap.Logger, sessionTests repository.SessionTestRepository, users repository.UserRepository) *SessionTestHandler {
	return &SessionTestHandler{
		logger:       logger,
		sessionTests: sessionTests,
		users:        users,
	}
}

// Create trata POST /session-tests.
func (h *SessionTestHandler) Create(c *gin.Context) {
	var req struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create session test request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if _, err := h.users.GetByID(c.Request.Context(), req.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Error("lookup user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session test"})
		return
	}

	now := time.Now().UTC()
	test := domain.SessionTest{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.sessionTests.Create(c.Request.Context(), test); err != nil {
		h.logger.Error("create session test failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session test"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": test.ID})
}

// List trata GET /session-tests?userId=.
func (h *SessionTestHandler) List(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	items, err := h.sessionTests.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("list session tests failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list session tests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Delete trata DELETE /session-tests/:id.
func (h *SessionTestHandler) Delete(c *gin.Context) {
	err := h.sessionTests.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session test not found"})
			return
		}
		h.logger.Error("delete session test failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete session test"})
		return
	}

	c.Status(http.StatusNoContent)
}
