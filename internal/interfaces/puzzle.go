package interfaces

import (
	"context"

	"PuzzleSync/internal/model"
)

// SearchQuery 谜题目录检索条件
type SearchQuery struct {
	Themes       []string // 命中任一主题即可
	PhaseFilter  string   // 阶段标签过滤（可空）
	RatingTarget int      // 目标难度分，0 表示不限难度带
	Limit        int      // 最多返回条数
}

// MatchIndexClient 谜题目录检索接口（约300万行，对核心只读）
type MatchIndexClient interface {
	Search(ctx context.Context, q SearchQuery) ([]*model.PuzzleCandidate, error)
}

// LinkSink 链接落库接口。(blunderID, puzzleID) 唯一，重复写入必须幂等：
// 已存在时返回 created=false 且不报错
type LinkSink interface {
	UpsertLink(ctx context.Context, blunderID uint64, puzzleID string, matchScore float64) (created bool, err error)
}

// PuzzleDetailProvider 远端谜题详情源（仅缓存未命中时调用）。
// 谜题不存在时返回 (nil, nil)
type PuzzleDetailProvider interface {
	FetchPuzzleDetail(ctx context.Context, puzzleID string) (*model.PuzzleDetail, error)
}
