package service

import (
	"context"
	"fmt"

	"PuzzleSync/internal/interfaces"
	"PuzzleSync/internal/model"

	"github.com/sirupsen/logrus"
)

// PuzzleDetailService 谜题详情读取：先查缓存，未命中再走远端并回填缓存
type PuzzleDetailService struct {
	cache    *PuzzleDetailCache
	provider interfaces.PuzzleDetailProvider
	logger   *logrus.Logger
}

func NewPuzzleDetailService(cache *PuzzleDetailCache, provider interfaces.PuzzleDetailProvider, logger *logrus.Logger) *PuzzleDetailService {
	return &PuzzleDetailService{
		cache:    cache,
		provider: provider,
		logger:   logger,
	}
}

// GetPuzzle 返回谜题完整详情。远端也不存在时返回 (nil, nil)
func (s *PuzzleDetailService) GetPuzzle(ctx context.Context, puzzleID string) (*model.PuzzleDetail, error) {
	if detail, ok := s.cache.Get(puzzleID); ok {
		return detail, nil
	}

	detail, err := s.provider.FetchPuzzleDetail(ctx, puzzleID)
	if err != nil {
		return nil, fmt.Errorf("拉取谜题详情失败: %w", err)
	}
	if detail == nil {
		s.logger.WithField("puzzle_id", puzzleID).Debug("远端无此谜题")
		return nil, nil
	}

	s.cache.Set(puzzleID, detail)
	return detail, nil
}
