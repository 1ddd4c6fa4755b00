package model

// PuzzleIndexEntry 对应 puzzle_index 表：本地谜题目录（lichess 导出，约300万行）。
// 由独立的导入脚本灌库，核心只读，不参与软删除。
type PuzzleIndexEntry struct {
	PuzzleID        string `gorm:"primaryKey;column:puzzle_id;type:varchar(16)"`
	FEN             string `gorm:"column:fen;type:varchar(128);not null"`    // 谜题起始局面
	Moves           string `gorm:"column:moves;type:text;not null"`          // 解法着法序列（UCI，空格分隔）
	Rating          int    `gorm:"column:rating;type:int;index;not null"`    // 谜题难度分
	RatingDeviation int    `gorm:"column:rating_deviation;type:int"`         // 难度分偏差
	Popularity      int    `gorm:"column:popularity;type:int;not null"`      // 受欢迎度 0-100
	NbPlays         int    `gorm:"column:nb_plays;type:int"`                 // 被练习次数
	Themes          string `gorm:"column:themes;type:varchar(256);not null"` // 主题标签（空格分隔，含阶段标签）
	GameURL         string `gorm:"column:game_url;type:varchar(256)"`        // 来源对局链接
}

func (PuzzleIndexEntry) TableName() string { return "puzzle_index" }

// PuzzleCandidate 目录检索返回的候选谜题（目录行的内存视图，打分排序用）
type PuzzleCandidate struct {
	ID         string   // 谜题ID
	Themes     []string // 主题标签集合
	Rating     int      // 难度分
	Popularity int      // 受欢迎度 0-100
}

// PuzzleDetail 远端谜题 API 返回的完整详情（只进缓存，不落库）
type PuzzleDetail struct {
	ID       string   `json:"id"`
	FEN      string   `json:"fen"`
	Solution []string `json:"solution"`
	Themes   []string `json:"themes"`
	Rating   int      `json:"rating"`
}
