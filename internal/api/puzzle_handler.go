package api

import (
	"net/http"
	"strconv"

	"PuzzleSync/internal/repository"
	"PuzzleSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PuzzleHandler 谜题详情与推荐链接查询接口
type PuzzleHandler struct {
	detailService *service.PuzzleDetailService
	linkRepo      *repository.LinkRepository
	logger        *logrus.Logger
}

func NewPuzzleHandler(db *gorm.DB, detailService *service.PuzzleDetailService, logger *logrus.Logger) *PuzzleHandler {
	return &PuzzleHandler{
		detailService: detailService,
		linkRepo:      repository.NewLinkRepository(db),
		logger:        logger,
	}
}

// GetPuzzle 谜题完整详情（经缓存，未命中走远端）
// GET /api/puzzles/:puzzle_id
func (h *PuzzleHandler) GetPuzzle(c *gin.Context) {
	puzzleID := c.Param("puzzle_id")
	if puzzleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "puzzle_id is required"})
		return
	}

	detail, err := h.detailService.GetPuzzle(c.Request.Context(), puzzleID)
	if err != nil {
		h.logger.WithError(err).Error("GetPuzzle failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if detail == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "puzzle not found"})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// ListBlunderPuzzles 某个失误已落库的推荐谜题
// GET /api/blunders/:blunder_id/puzzles
func (h *PuzzleHandler) ListBlunderPuzzles(c *gin.Context) {
	blunderID, err := strconv.ParseUint(c.Param("blunder_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid blunder_id"})
		return
	}

	links, err := h.linkRepo.ListByBlunderID(c.Request.Context(), blunderID)
	if err != nil {
		h.logger.WithError(err).Error("ListBlunderPuzzles failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"blunder_id": blunderID,
		"puzzles":    links,
	})
}
