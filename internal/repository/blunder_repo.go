package repository

import (
	"context"
	"errors"

	"PuzzleSync/internal/interfaces"
	"PuzzleSync/internal/model"

	"gorm.io/gorm"
)

// BlunderRepository 失误读仓储（实现 AnalysisStore 与 BlunderBacklog）
type BlunderRepository struct {
	db *gorm.DB
}

func NewBlunderRepository(db *gorm.DB) *BlunderRepository {
	return &BlunderRepository{db: db}
}

// GetBlunderDetail 查询失误详情。记录不存在时返回 (nil, nil)，由链接器按跳过处理
func (r *BlunderRepository) GetBlunderDetail(ctx context.Context, blunderID uint64) (*interfaces.BlunderDetail, error) {
	var b model.Blunder
	if err := r.db.WithContext(ctx).Where("id = ?", blunderID).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &interfaces.BlunderDetail{
		BlunderID:     b.ID,
		TacticalTheme: b.TacticalTheme,
		GamePhase:     b.GamePhase,
		PositionFEN:   b.PositionFEN,
		CentipawnLoss: b.CentipawnLoss,
	}, nil
}

// ListBlunderIDsWithoutLinks 列出尚无任何谜题链接的失误ID（回填任务用），按ID升序
func (r *BlunderRepository) ListBlunderIDsWithoutLinks(ctx context.Context, limit int) ([]uint64, error) {
	if limit <= 0 {
		limit = 500
	}
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&model.Blunder{}).
		Joins("LEFT JOIN blunder_puzzle_links ON blunder_puzzle_links.blunder_id = blunders.id").
		Where("blunder_puzzle_links.id IS NULL").
		Order("blunders.id ASC").
		Limit(limit).
		Pluck("blunders.id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListByGameID 按对局返回全部失误，着数升序
func (r *BlunderRepository) ListByGameID(ctx context.Context, gameID uint64) ([]*model.Blunder, error) {
	var blunders []*model.Blunder
	if err := r.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("move_number ASC").
		Find(&blunders).Error; err != nil {
		return nil, err
	}
	return blunders, nil
}
