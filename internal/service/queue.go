package service

import (
	"context"
	"sync"
	"time"

	"PuzzleSync/internal/config"

	"github.com/sirupsen/logrus"
)

// BlunderLinker 队列消费的链接器契约（便于测试替换）
type BlunderLinker interface {
	LinkBlunder(ctx context.Context, blunderID uint64) (*LinkResult, error)
}

// QueueStatus 只读诊断快照
type QueueStatus struct {
	Enabled    bool `json:"enabled"`
	Pending    int  `json:"pending"`
	Processing bool `json:"processing"`
}

// queueEntry 队列内的瞬态工作项，仅存内存，进程重启即丢（回填任务负责恢复）
type queueEntry struct {
	blunderID  uint64
	enqueuedAt time.Time
}

// LinkQueue 谜题链接队列：FIFO 缓冲 + 批量限速排空。
// Enqueue 同步立即返回，真正的匹配在后台排空协程里按批执行，
// 每批最多 batchSize 条、批内逐条串行，批间暂停 batchDelay 让出资源。
// 缓冲区空或被停用时排空协程自行退出，下次入队/启用时再拉起（无常驻协程）。
// 排空协程同一时刻最多一个（单消费者），保证批内串行与 FIFO 顺序。
type LinkQueue struct {
	mu         sync.Mutex
	entries    []queueEntry
	pending    map[uint64]struct{} // 在缓冲区内尚未被取走的失误ID
	enabled    bool
	processing bool
	batchSize  int
	batchDelay time.Duration
	linker     BlunderLinker
	logger     *logrus.Logger
}

func NewLinkQueue(linker BlunderLinker, cfg *config.Config, logger *logrus.Logger) *LinkQueue {
	return &LinkQueue{
		pending:    make(map[uint64]struct{}),
		enabled:    true,
		batchSize:  cfg.Queue.BatchSize,
		batchDelay: cfg.Queue.BatchDelay(),
		linker:     linker,
		logger:     logger,
	}
}

// Enqueue 追加一个待链接的失误，O(1) 立即返回，不做任何同步匹配工作。
// 同一失误ID已在缓冲区内时拒绝（返回 false），避免重复劳动；
// 被取走进入批处理后即可再次入队。停用期间照常缓冲，只是不排空
func (q *LinkQueue) Enqueue(blunderID uint64) bool {
	q.mu.Lock()
	if _, dup := q.pending[blunderID]; dup {
		q.mu.Unlock()
		return false
	}
	q.entries = append(q.entries, queueEntry{blunderID: blunderID, enqueuedAt: time.Now()})
	q.pending[blunderID] = struct{}{}
	start := q.enabled && !q.processing
	if start {
		q.processing = true
	}
	q.mu.Unlock()

	if start {
		go q.drainLoop()
	}
	return true
}

// SetEnabled 启停队列处理。批量上传编排器在批量开始前停用、结束后恢复；
// 停用只拦截排空，入队缓冲不受影响。恢复时若有积压立即拉起排空
func (q *LinkQueue) SetEnabled(enabled bool) {
	q.mu.Lock()
	q.enabled = enabled
	start := enabled && !q.processing && len(q.entries) > 0
	if start {
		q.processing = true
	}
	q.mu.Unlock()

	if enabled {
		q.logger.Info("链接队列已启用")
	} else {
		q.logger.Info("链接队列已停用")
	}
	if start {
		go q.drainLoop()
	}
}

// Snapshot 只读状态快照（诊断接口用，无副作用）
func (q *LinkQueue) Snapshot() QueueStatus {
	q.mu.Lock()
	defer q.mu.Unlock()
	return QueueStatus{
		Enabled:    q.enabled,
		Pending:    len(q.entries),
		Processing: q.processing,
	}
}

// drainLoop 单消费者排空循环。每轮取走至多 batchSize 条按 FIFO 逐条处理，
// 单条失败只记日志继续下一条；批间 Sleep(batchDelay)。
// 停用或排空后将 processing 置回 false 并退出
func (q *LinkQueue) drainLoop() {
	ctx := context.Background()
	for {
		q.mu.Lock()
		if !q.enabled || len(q.entries) == 0 {
			q.processing = false
			q.mu.Unlock()
			return
		}
		n := q.batchSize
		if n > len(q.entries) {
			n = len(q.entries)
		}
		batch := make([]queueEntry, n)
		copy(batch, q.entries[:n])
		q.entries = q.entries[n:]
		for _, e := range batch {
			delete(q.pending, e.blunderID)
		}
		q.mu.Unlock()

		for _, e := range batch {
			res, err := q.linker.LinkBlunder(ctx, e.blunderID)
			if err != nil {
				// 单条失败不中断整批；该失误等待上游重新提交或回填
				q.logger.WithError(err).WithField("blunder_id", e.blunderID).Warn("链接失误失败，跳过")
				continue
			}
			if res.Skipped {
				continue
			}
			q.logger.WithFields(logrus.Fields{
				"blunder_id": e.blunderID,
				"linked":     res.Linked,
				"wait_ms":    time.Since(e.enqueuedAt).Milliseconds(),
			}).Debug("失误链接完成")
		}

		// 批间让出，控制批处理对宿主进程的占用
		time.Sleep(q.batchDelay)
	}
}
