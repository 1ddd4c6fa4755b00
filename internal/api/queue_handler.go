package api

import (
	"net/http"
	"strconv"

	"PuzzleSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// QueueHandler 链接队列诊断与控制接口
type QueueHandler struct {
	queue    *service.LinkQueue
	backfill *service.BackfillService
	logger   *logrus.Logger
}

func NewQueueHandler(queue *service.LinkQueue, backfill *service.BackfillService, logger *logrus.Logger) *QueueHandler {
	return &QueueHandler{
		queue:    queue,
		backfill: backfill,
		logger:   logger,
	}
}

// Status 队列只读状态快照
// GET /api/queue/status
func (h *QueueHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.queue.Snapshot())
}

// SetEnabledRequest 启停请求体
type SetEnabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// SetEnabled 启停队列处理（停用期间入队照常缓冲）
// POST /api/queue/enabled
func (h *QueueHandler) SetEnabled(c *gin.Context) {
	var req SetEnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.queue.SetEnabled(*req.Enabled)
	c.JSON(http.StatusOK, h.queue.Snapshot())
}

// Backfill 把尚无链接的失误重新入队（进程重启后的恢复入口）
// POST /api/backfill?limit=500
func (h *QueueHandler) Backfill(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "500"))

	enqueued, err := h.backfill.Run(c.Request.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Backfill failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"enqueued": enqueued})
}
