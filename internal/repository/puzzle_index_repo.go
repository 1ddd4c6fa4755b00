package repository

import (
	"context"
	"strings"

	"PuzzleSync/internal/interfaces"
	"PuzzleSync/internal/model"

	"gorm.io/gorm"
)

// PuzzleIndexRepository 谜题目录检索仓储（实现 MatchIndexClient）。
// themes 列为空格分隔标签，两端补空格后 LIKE 匹配整词，sqlite 与 postgres 通用
type PuzzleIndexRepository struct {
	db         *gorm.DB
	ratingBand int // 难度带宽（±）
}

func NewPuzzleIndexRepository(db *gorm.DB, ratingBand int) *PuzzleIndexRepository {
	if ratingBand <= 0 {
		ratingBand = 300
	}
	return &PuzzleIndexRepository{db: db, ratingBand: ratingBand}
}

// Search 按主题/阶段/难度带检索候选谜题，受欢迎度倒序。
// 任一主题命中即入选；q.RatingTarget 为 0 时不限难度带
func (r *PuzzleIndexRepository) Search(ctx context.Context, q interfaces.SearchQuery) ([]*model.PuzzleCandidate, error) {
	db := r.db.WithContext(ctx).Model(&model.PuzzleIndexEntry{})

	if len(q.Themes) > 0 {
		conds := make([]string, 0, len(q.Themes))
		args := make([]interface{}, 0, len(q.Themes))
		for _, t := range q.Themes {
			conds = append(conds, "(' ' || themes || ' ') LIKE ?")
			args = append(args, "% "+t+" %")
		}
		db = db.Where(strings.Join(conds, " OR "), args...)
	}
	if q.PhaseFilter != "" {
		db = db.Where("(' ' || themes || ' ') LIKE ?", "% "+q.PhaseFilter+" %")
	}
	if q.RatingTarget > 0 {
		db = db.Where("rating BETWEEN ? AND ?", q.RatingTarget-r.ratingBand, q.RatingTarget+r.ratingBand)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	var rows []*model.PuzzleIndexEntry
	if err := db.Order("popularity DESC").Order("puzzle_id ASC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	candidates := make([]*model.PuzzleCandidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, &model.PuzzleCandidate{
			ID:         row.PuzzleID,
			Themes:     strings.Fields(row.Themes),
			Rating:     row.Rating,
			Popularity: row.Popularity,
		})
	}
	return candidates, nil
}
