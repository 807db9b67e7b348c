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

// PronounceTestHandler mantém dependências para os endpoints de pronounce
// tests.
type PronounceTestHandler struct {
	logger         *zap.Logger
	pronounceTests repository.PronounceTestRepository
	sessionTests   repository.SessionTestRepository
}

func NewPronounceTestHandler(logger *zap.Logger, pronounceTests repository.PronounceTestRepository, sessionTests repository.SessionTestRepository) *PronounceTestHandler {
	return &PronounceTestHandler{
		logger:         logger,
		pronounceTests: pronounceTests,
		sessionTests:   sessionTests,
	}
}

// Create trata POST /pronounce-tests. O session test precisa pertencer ao
// usuário informado.
func (h *PronounceTestHandler) Create(c *gin.Context) {
	var req struct {
		UserID        string  `json:"userId" binding:"required"`
		SessionTestID string  `json:"sessionTestId" binding:"required"`
		Score         *int    `json:"score" binding:"omitempty,min=0"`
		Feedback      *string `json:"feedback" binding:"omitempty,min=1,max=1024"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create pronounce test request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if _, err := h.sessionTests.GetByIDAndUser(c.Request.Context(), req.SessionTestID, req.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session test not found"})
			return
		}
		h.logger.Error("lookup session test failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create pronounce test"})
		return
	}

	now := time.Now().UTC()
	test := domain.PronounceTest{
		ID:            uuid.NewString(),
		UserID:        req.UserID,
		SessionTestID: req.SessionTestID,
		Score:         req.Score,
		Feedback:      req.Feedback,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := h.pronounceTests.Create(c.Request.Context(), test); err != nil {
		h.logger.Error("create pronounce test failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create pronounce test"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": test.ID})
}

// List trata GET /pronounce-tests?sessionTestId=.
func (h *PronounceTestHandler) List(c *gin.Context) {
	sessionTestID := c.Query("sessionTestId")
	if sessionTestID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionTestId is required"})
		return
	}

	items, err := h.pronounceTests.ListBySessionTest(c.Request.Context(), sessionTestID)
	if err != nil {
		h.logger.Error("list pronounce tests failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list pronounce tests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Update trata PATCH /pronounce-tests/:id. Pelo menos um campo precisa vir
// no corpo.
func (h *PronounceTestHandler) Update(c *gin.Context) {
	var req struct {
		Score    *int    `json:"score" binding:"omitempty,min=0"`
		Feedback *string `json:"feedback" binding:"omitempty,min=1,max=1024"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update pronounce test request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Score == nil && req.Feedback == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one field must be provided"})
		return
	}

	id := c.Param("id")
	if _, err := h.pronounceTests.GetByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pronounce test not found"})
			return
		}
		h.logger.Error("lookup pronounce test failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update pronounce test"})
		return
	}

	updated, err := h.pronounceTests.Update(c.Request.Context(), id, req.Score, req.Feedback)
	if err != nil {
		h.logger.Error("update pronounce test failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update pronounce test"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            updated.ID,
		"userId":        updated.UserID,
		"sessionTestId": updated.SessionTestID,
		"score":         updated.Score,
		"feedback":      updated.Feedback,
		"createdAt":     updated.CreatedAt.Format(time.RFC3339),
		"updatedAt":     updated.UpdatedAt.Format(time.RFC3339),
	})
}

// Delete trata DELETE /pronounce-tests/:id.
func (h *PronounceTestHandler) Delete(c *gin.Context) {
	err := h.pronounceTests.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pronounce test not found"})
			return
		}
		h.logger.Error("delete pronounce test failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete pronounce test"})
		return
	}

	c.Status(http.StatusNoContent)
}
