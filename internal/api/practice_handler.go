package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"PuzzleSync/internal/model"
	"PuzzleSync/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PracticeHandler 谜题练习记录接口
type PracticeHandler struct {
	practiceRepo *repository.PracticeRepository
	logger       *logrus.Logger
}

func NewPracticeHandler(db *gorm.DB, logger *logrus.Logger) *PracticeHandler {
	return &PracticeHandler{
		practiceRepo: repository.NewPracticeRepository(db),
		logger:       logger,
	}
}

// RecordAttemptRequest 练习记录请求体
type RecordAttemptRequest struct {
	PuzzleID    string   `json:"puzzle_id" binding:"required"`
	BlunderID   *uint64  `json:"blunder_id"`
	Solved      *bool    `json:"solved" binding:"required"`
	MovesPlayed []string `json:"moves_played"`
	DurationMS  int      `json:"duration_ms"`
}

// RecordAttempt 写入一次练习记录
// POST /api/practice
func (h *PracticeHandler) RecordAttempt(c *gin.Context) {
	var req RecordAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var moves []byte
	if len(req.MovesPlayed) > 0 {
		moves, _ = json.Marshal(req.MovesPlayed)
	}
	attempt := &model.PracticeAttempt{
		PuzzleID:    req.PuzzleID,
		BlunderID:   req.BlunderID,
		Solved:      *req.Solved,
		MovesPlayed: moves,
		DurationMS:  req.DurationMS,
	}
	if err := h.practiceRepo.RecordAttempt(c.Request.Context(), attempt); err != nil {
		h.logger.WithError(err).Error("RecordAttempt failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, attempt)
}

// ListAttempts 练习记录列表
// GET /api/practice?puzzle_id=...&limit=50
func (h *PracticeHandler) ListAttempts(c *gin.Context) {
	puzzleID := c.Query("puzzle_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	var (
		list []*model.PracticeAttempt
		err  error
	)
	if puzzleID != "" {
		list, err = h.practiceRepo.ListByPuzzleID(c.Request.Context(), puzzleID)
	} else {
		list, err = h.practiceRepo.ListRecent(c.Request.Context(), limit)
	}
	if err != nil {
		h.logger.WithError(err).Error("ListAttempts failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": list})
}
