package repository

import (
	"context"

	"PuzzleSync/internal/model"

	"gorm.io/gorm"
)

// PracticeRepository 练习记录仓储
type PracticeRepository struct {
	db *gorm.DB
}

func NewPracticeRepository(db *gorm.DB) *PracticeRepository {
	return &PracticeRepository{db: db}
}

// RecordAttempt 写入一次练习记录
func (r *PracticeRepository) RecordAttempt(ctx context.Context, attempt *model.PracticeAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

// ListRecent 最近的练习记录，时间倒序
func (r *PracticeRepository) ListRecent(ctx context.Context, limit int) ([]*model.PracticeAttempt, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var list []*model.PracticeAttempt
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListByPuzzleID 某个谜题的全部练习记录
func (r *PracticeRepository) ListByPuzzleID(ctx context.Context, puzzleID string) ([]*model.PracticeAttempt, error) {
	var list []*model.PracticeAttempt
	if err := r.db.WithContext(ctx).Where("puzzle_id = ?", puzzleID).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
