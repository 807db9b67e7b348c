package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgvector "github.com/pgvector/pgvector-go"
	"go.uber.org/zap"

	"github.com/pedroaba/fono-api-c317/internal/domain"
	"github.com/pedroaba/fono-api-c317/internal/repository"
)

// PronounceHandler mantém dependências para os endpoints de pronounces.
type PronounceHandler struct {
	logger     *zap.Logger
	pronounces repository.PronounceRepository
}

func NewPronounceHandler(logger *zap.Logger, pronounces repository.PronounceRepository) *PronounceHandler {
	return &PronounceHandler{
		logger:     logger,
		pronounces: pronounces,
	}
}

// Create trata POST /pronounces. Score e embedding começam vazios e são
// preenchidos depois pelo fluxo de avaliação.
func (h *PronounceHandler) Create(c *gin.Context) {
	var req struct {
		Word   string  `json:"word" binding:"required"`
		Speak  []int32 `json:"speak" binding:"required"`
		UserID string  `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create pronounce request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	now := time.Now().UTC()
	pronounce := domain.Pronounce{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		Word:      req.Word,
		Speak:     req.Speak,
		Embedding: pgvector.NewVector([]float32{}),
		Score:     -1,
		Feedback:  "",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.pronounces.Create(c.Request.Context(), pronounce); err != nil {
		h.logger.Error("create pronounce failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create pronounce"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": pronounce.ID})
}

// List trata GET /pronounces com dono e testes embutidos.
func (h *PronounceHandler) List(c *gin.Context) {
	page := intQuery(c, "page", defaultPage)
	limit := intQuery(c, "limit", defaultLimit)
	if page < defaultPage {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	items, total, err := h.pronounces.List(c.Request.Context(), page, limit)
	if err != nil {
		h.logger.Error("list pronounces failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list pronounces"})
		return
	}

	views := make([]gin.H, 0, len(items))
	for _, item := range items {
		tests := make([]gin.H, 0, len(item.Tests))
		for _, test := range item.Tests {
			tests = append(tests, gin.H{
				"id":       test.ID,
				"score":    test.Score,
				"feedback": test.Feedback,
			})
		}
		views = append(views, gin.H{
			"id":             item.Pronounce.ID,
			"word":           item.Pronounce.Word,
			"speak":          item.Pronounce.Speak,
			"embedding":      item.Pronounce.Embedding.Slice(),
			"score":          item.Pronounce.Score,
			"feedback":       item.Pronounce.Feedback,
			"pronounceTests": tests,
			"user":           userView(item.Owner),
			"createdAt":      item.Pronounce.CreatedAt,
			"updatedAt":      item.Pronounce.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"pronounces": views, "total": total})
}

// Delete trata DELETE /pronounces/:id.
func (h *PronounceHandler) Delete(c *gin.Context) {
	err := h.pronounces.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pronounce not found"})
			return
		}
		h.logger.Error("delete pronounce failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete pronounce"})
		return
	}

	c.Status(http.StatusNoContent)
}
