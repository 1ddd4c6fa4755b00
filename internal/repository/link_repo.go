package repository

import (
	"context"
	"time"

	"PuzzleSync/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LinkRepository 失误-谜题链接仓储（实现 LinkSink）
type LinkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// UpsertLink 幂等写入链接：(blunder_id, puzzle_id) 冲突时不做任何事。
// created 通过 RowsAffected 区分新建与已存在，重复链接不报错不覆盖
func (r *LinkRepository) UpsertLink(ctx context.Context, blunderID uint64, puzzleID string, matchScore float64) (bool, error) {
	link := &model.BlunderPuzzleLink{
		BlunderID:  blunderID,
		PuzzleID:   puzzleID,
		MatchScore: matchScore,
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "blunder_id"}, {Name: "puzzle_id"}},
		DoNothing: true,
	}).Create(link)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// LinkedPuzzle 单条链接与目录行拼接后的只读视图（前端展示用）
type LinkedPuzzle struct {
	PuzzleID   string    `json:"puzzle_id"`
	MatchScore float64   `json:"match_score"`
	Rating     int       `json:"rating"`
	Popularity int       `json:"popularity"`
	Themes     string    `json:"themes"`
	FEN        string    `json:"fen"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListByBlunderID 按失误返回已落库的推荐谜题，排序权重倒序
func (r *LinkRepository) ListByBlunderID(ctx context.Context, blunderID uint64) ([]*LinkedPuzzle, error) {
	var list []*LinkedPuzzle
	err := r.db.WithContext(ctx).
		Model(&model.BlunderPuzzleLink{}).
		Select("blunder_puzzle_links.puzzle_id, blunder_puzzle_links.match_score, blunder_puzzle_links.created_at, "+
			"puzzle_index.rating, puzzle_index.popularity, puzzle_index.themes, puzzle_index.fen").
		Joins("JOIN puzzle_index ON puzzle_index.puzzle_id = blunder_puzzle_links.puzzle_id").
		Where("blunder_puzzle_links.blunder_id = ?", blunderID).
		Order("blunder_puzzle_links.match_score DESC").
		Scan(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// CountByBlunderID 某失误已有的链接数
func (r *LinkRepository) CountByBlunderID(ctx context.Context, blunderID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.BlunderPuzzleLink{}).
		Where("blunder_id = ?", blunderID).
		Count(&count).Error
	return count, err
}
