package interfaces

import (
	"context"

	"PuzzleSync/internal/model"
)

// BlunderDetail 链接器消费的失误信息（分析库中 Blunder 的只读视图）
type BlunderDetail struct {
	BlunderID     uint64
	TacticalTheme model.TacticalTheme
	GamePhase     model.GamePhase
	PositionFEN   string
	CentipawnLoss int
}

// AnalysisStore 分析库读接口。失误已被删除时返回 (nil, nil)：
// 对后台流程而言 not-found 不是错误，由调用方按跳过处理。
type AnalysisStore interface {
	GetBlunderDetail(ctx context.Context, blunderID uint64) (*BlunderDetail, error)
}

// BlunderBacklog 回填任务使用：列出尚无任何谜题链接的失误
type BlunderBacklog interface {
	ListBlunderIDsWithoutLinks(ctx context.Context, limit int) ([]uint64, error)
}

// GameStore 对局落库接口（上传编排器使用，对局与其失误在同一事务内写入）
type GameStore interface {
	SaveGameWithBlunders(ctx context.Context, game *model.Game, blunders []*model.Blunder) error
}
