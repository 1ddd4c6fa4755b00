package api

import (
	"net/http"
	"strconv"

	"PuzzleSync/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// GameHandler 对局与失误浏览接口（前端对局列表页用）
type GameHandler struct {
	gameRepo    *repository.GameRepository
	blunderRepo *repository.BlunderRepository
	logger      *logrus.Logger
}

func NewGameHandler(db *gorm.DB, logger *logrus.Logger) *GameHandler {
	return &GameHandler{
		gameRepo:    repository.NewGameRepository(db),
		blunderRepo: repository.NewBlunderRepository(db),
		logger:      logger,
	}
}

// ListGames 对局列表
// GET /api/games?tournament=...&opponent=...&color=white&result=1-0&page=1&page_size=20
func (h *GameHandler) ListGames(c *gin.Context) {
	filter := repository.GameFilter{
		Tournament: c.Query("tournament"),
		Opponent:   c.Query("opponent"),
		Color:      c.Query("color"),
		Result:     c.Query("result"),
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	games, total, err := h.gameRepo.ListGames(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("ListGames failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page":      page,
		"page_size": pageSize,
		"total":     total,
		"items":     games,
	})
}

// ListGameBlunders 某对局的全部失误
// GET /api/games/:game_uuid/blunders
func (h *GameHandler) ListGameBlunders(c *gin.Context) {
	gameUUID := c.Param("game_uuid")
	if gameUUID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "game_uuid is required"})
		return
	}

	game, err := h.gameRepo.GetGameByUUID(c.Request.Context(), gameUUID)
	if err != nil {
		h.logger.WithError(err).Error("GetGameByUUID failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if game == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}

	blunders, err := h.blunderRepo.ListByGameID(c.Request.Context(), game.ID)
	if err != nil {
		h.logger.WithError(err).Error("ListByGameID failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"game":     game,
		"blunders": blunders,
	})
}
