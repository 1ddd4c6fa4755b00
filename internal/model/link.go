package model

import (
	"time"

	"gorm.io/datatypes"
)

// BlunderPuzzleLink 对应 blunder_puzzle_links 表：失误与推荐谜题的关联。
// (blunder_id, puzzle_id) 唯一，重复链接通过 ON CONFLICT DO NOTHING 幂等吸收；
// 行创建后不再修改。
type BlunderPuzzleLink struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	BlunderID  uint64    `gorm:"column:blunder_id;type:bigint;not null;uniqueIndex:uq_blunder_puzzle"`
	PuzzleID   string    `gorm:"column:puzzle_id;type:varchar(16);not null;uniqueIndex:uq_blunder_puzzle"`
	MatchScore float64   `gorm:"column:match_score;type:numeric(10,2);not null"` // 排序权重（主题重合×1000+受欢迎度）
	CreatedAt  time.Time `gorm:"column:created_at;type:timestamp;default:now()"`
}

func (BlunderPuzzleLink) TableName() string { return "blunder_puzzle_links" }

// PracticeAttempt 对应 practice_attempts 表：一次谜题练习记录
type PracticeAttempt struct {
	ID          uint64         `gorm:"column:id;primaryKey;autoIncrement"`
	PuzzleID    string         `gorm:"column:puzzle_id;type:varchar(16);index;not null"`
	BlunderID   *uint64        `gorm:"column:blunder_id;type:bigint;index"` // 从失误推荐进入练习时填写
	Solved      bool           `gorm:"column:solved;type:boolean;not null"`
	MovesPlayed datatypes.JSON `gorm:"column:moves_played"` // 用户实际走的着法序列
	DurationMS  int            `gorm:"column:duration_ms;type:int"`
	CreatedAt   time.Time      `gorm:"column:created_at;type:timestamp;default:now()"`
}

func (PracticeAttempt) TableName() string { return "practice_attempts" }
