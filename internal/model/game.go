package model

import (
	"time"

	"gorm.io/datatypes"
)

// Game 对应 games 表，记录一局已上传并完成引擎分析的对局
type Game struct {
	ID          uint64         `gorm:"column:id;primaryKey;autoIncrement"`
	GameUUID    string         `gorm:"column:game_uuid;type:varchar(64);uniqueIndex;not null"` // 全局唯一ID
	PlayedAt    time.Time      `gorm:"column:played_at;type:timestamp;not null"`               // 对局日期
	Tournament  string         `gorm:"column:tournament;type:varchar(128)"`                    // 赛事名称
	Opponent    string         `gorm:"column:opponent;type:varchar(128)"`                      // 对手
	Color       string         `gorm:"column:color;type:varchar(8);not null"`                  // 执棋颜色 white/black
	Result      string         `gorm:"column:result;type:varchar(8);not null"`                 // 结果 1-0/0-1/1/2-1/2
	ECO         string         `gorm:"column:eco;type:varchar(8)"`                             // 开局编码
	TimeControl string         `gorm:"column:time_control;type:varchar(32)"`                   // 时限
	PGN         string         `gorm:"column:pgn;type:text"`                                   // 原始棋谱
	Headers     datatypes.JSON `gorm:"column:headers"`                                        // PGN 头部键值（原样保留）
	CreatedAt   time.Time      `gorm:"column:created_at;type:timestamp;default:now()"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;type:timestamp;default:now()"`
}

func (Game) TableName() string { return "games" }

// Blunder 对应 blunders 表，分析管线检测出的重大失误着法。
// 上传时一次性写入，此后对核心只读；谜题链接以 blunder_id 引用。
type Blunder struct {
	ID            uint64        `gorm:"column:id;primaryKey;autoIncrement"`
	GameID        uint64        `gorm:"column:game_id;type:bigint;index;not null"`            // 关联对局ID
	MoveNumber    int           `gorm:"column:move_number;type:int;not null"`                 // 着数
	Move          string        `gorm:"column:move;type:varchar(16);not null"`                // 失误着法（SAN）
	PositionFEN   string        `gorm:"column:position_fen;type:varchar(128);not null"`       // 失误时的局面
	TacticalTheme TacticalTheme `gorm:"column:tactical_theme;type:varchar(32);index;not null"` // 战术主题
	GamePhase     GamePhase     `gorm:"column:game_phase;type:varchar(16);not null"`          // 对局阶段
	EvalBefore    int           `gorm:"column:eval_before;type:int"`                          // 着前评估（厘兵）
	EvalAfter     int           `gorm:"column:eval_after;type:int"`                           // 着后评估（厘兵）
	CentipawnLoss int           `gorm:"column:centipawn_loss;type:int;not null"`              // 厘兵损失
	CreatedAt     time.Time     `gorm:"column:created_at;type:timestamp;default:now()"`
}

func (Blunder) TableName() string { return "blunders" }
