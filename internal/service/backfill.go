package service

import (
	"context"

	"PuzzleSync/internal/interfaces"

	"github.com/sirupsen/logrus"
)

// BackfillService 链接回填：队列只存内存，进程重启会丢掉未处理的工作项，
// 回填任务扫出尚无任何链接的失误重新入队，作为既定的恢复路径
type BackfillService struct {
	backlog interfaces.BlunderBacklog
	queue   *LinkQueue
	logger  *logrus.Logger
}

func NewBackfillService(backlog interfaces.BlunderBacklog, queue *LinkQueue, logger *logrus.Logger) *BackfillService {
	return &BackfillService{
		backlog: backlog,
		queue:   queue,
		logger:  logger,
	}
}

// Run 扫描至多 limit 个无链接失误并入队，返回实际入队数（已在队列内的会被去重掉）
func (s *BackfillService) Run(ctx context.Context, limit int) (int, error) {
	ids, err := s.backlog.ListBlunderIDsWithoutLinks(ctx, limit)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		s.logger.Debug("回填：无待补链接的失误")
		return 0, nil
	}

	enqueued := 0
	for _, id := range ids {
		if s.queue.Enqueue(id) {
			enqueued++
		}
	}
	s.logger.Infof("回填：扫描%d个无链接失误，%d个入队", len(ids), enqueued)
	return enqueued, nil
}
