package api

import (
	"net/http"

	"PuzzleSync/internal/repository"
	"PuzzleSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// UploadHandler 对局上传接口
type UploadHandler struct {
	uploadService *service.UploadService
	logger        *logrus.Logger
}

// NewUploadHandler 创建 UploadHandler。queue 由组合根统一持有（进程内单实例）
func NewUploadHandler(db *gorm.DB, queue *service.LinkQueue, logger *logrus.Logger) *UploadHandler {
	gameRepo := repository.NewGameRepository(db)
	svc := service.NewUploadService(gameRepo, queue, logger)
	return &UploadHandler{
		uploadService: svc,
		logger:        logger,
	}
}

// UploadRequest 上传请求体，games 多于一局即按批量上传处理
type UploadRequest struct {
	Games []service.UploadGame `json:"games" binding:"required,min=1"`
}

// Upload 上传已分析对局（含检测出的失误）
// POST /api/upload
func (h *UploadHandler) Upload(c *gin.Context) {
	var req UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.uploadService.ProcessUpload(c.Request.Context(), req.Games)
	if err != nil {
		h.logger.WithError(err).Error("Upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
