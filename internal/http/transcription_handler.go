package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pedroaba/fono-api-c317/internal/service"
	"github.com/pedroaba/fono-api-c317/internal/transcription"
)

// TranscriptionHandler expõe as rotas do experimento de transcrição.
type TranscriptionHandler struct {
	logger  *zap.Logger
	client  transcription.Client
	library *transcription.Library
}

func NewTranscriptionHandler(logger *zap.Logger, client transcription.Client, library *transcription.Library) *TranscriptionHandler {
	return &TranscriptionHandler{
		logger:  logger,
		client:  client,
		library: library,
	}
}

// TestDefault trata POST /transcription-test/default: transcreve o áudio
// padrão e compara com o texto esperado configurado.
func (h *TranscriptionHandler) TestDefault(c *gin.Context) {
	start := time.Now()

	if !h.client.Healthy(c.Request.Context()) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Service Unavailable",
			"message": "Transcription API is not available",
		})
		return
	}

	audioInfo, ok := h.library.Default()
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Transcription test failed",
			"message": "default audio file not found",
		})
		return
	}

	audio, err := h.library.Read(audioInfo.Filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Transcription test failed",
			"message": err.Error(),
		})
		return
	}

	transcriptionStart := time.Now()
	result, err := h.client.Transcribe(c.Request.Context(), audio, audioInfo.Filename)
	if err != nil {
		h.logger.Error("transcription failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Transcription test failed",
			"message": err.Error(),
		})
		return
	}
	transcriptionTime := time.Since(transcriptionStart)

	analysis := gin.H{"hasExpectedText": false}
	if audioInfo.ExpectedText != "" {
		score := service.SimilarityScore(audioInfo.ExpectedText, result.Text)
		analysis = gin.H{
			"hasExpectedText": true,
			"similarityScore": score,
			"matchPercentage": fmt.Sprintf("%.1f%%", score*100),
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"testType": "default-audio-transcription-test",
		"audioInfo": gin.H{
			"filename":     audioInfo.Filename,
			"size":         audioInfo.Size,
			"expectedText": audioInfo.ExpectedText,
		},
		"transcription": gin.H{
			"text":       result.Text,
			"confidence": result.Confidence,
			"language":   result.Language,
			"duration":   result.Duration,
		},
		"analysis": analysis,
		"timing": gin.H{
			"totalTime":         time.Since(start).Milliseconds(),
			"transcriptionTime": transcriptionTime.Milliseconds(),
		},
	})
}

// ListAudios trata GET /transcription-test/audios.
func (h *TranscriptionHandler) ListAudios(c *gin.Context) {
	audios := h.library.List()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(audios),
		"audios":  audios,
	})
}

// TestAudio trata POST /transcription-test/audio/:filename.
func (h *TranscriptionHandler) TestAudio(c *gin.Context) {
	filename := c.Param("filename")

	if !h.client.Healthy(c.Request.Context()) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Service Unavailable",
			"message": "Transcription API is not available",
		})
		return
	}

	audioInfo, ok := h.library.Find(filename)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Audio not found",
			"message": fmt.Sprintf("Audio file %s not found", filename),
		})
		return
	}

	audio, err := h.library.Read(filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Transcription test failed",
			"message": err.Error(),
		})
		return
	}

	result, err := h.client.Transcribe(c.Request.Context(), audio, filename)
	if err != nil {
		h.logger.Error("transcription failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Transcription test failed",
			"message": err.Error(),
		})
		return
	}

	response := gin.H{
		"success":  true,
		"filename": filename,
		"transcription": gin.H{
			"text":       result.Text,
			"confidence": result.Confidence,
			"language":   result.Language,
		},
		"expectedText": audioInfo.ExpectedText,
	}
	if audioInfo.ExpectedText != "" {
		score := service.SimilarityScore(audioInfo.ExpectedText, result.Text)
		response["similarity"] = gin.H{
			"score":          score,
			"percentage":     fmt.Sprintf("%.1f%%", score*100),
			"interpretation": service.SimilarityInterpretation(score),
		}
	}

	c.JSON(http.StatusOK, response)
}
