package model

// TacticalTheme 战术主题枚举（分析管线为每个失误标注的类别）
type TacticalTheme string

const (
	ThemeHangingPiece     TacticalTheme = "hanging_piece"      // 送子/漏吃
	ThemeMissedFork       TacticalTheme = "missed_fork"        // 错过捉双
	ThemeMissedPin        TacticalTheme = "missed_pin"         // 错过牵制
	ThemeMissedSkewer     TacticalTheme = "missed_skewer"      // 错过串击
	ThemeMissedMate       TacticalTheme = "missed_mate"        // 错过杀棋
	ThemeBackRankWeakness TacticalTheme = "back_rank_weakness" // 底线弱点
	ThemeTrappedPiece     TacticalTheme = "trapped_piece"      // 困子
	ThemePositionalError  TacticalTheme = "positional_error"   // 局面性错误
	ThemeEndgameTechnique TacticalTheme = "endgame_technique"  // 残局技术
)

// GamePhase 对局阶段枚举
type GamePhase string

const (
	PhaseOpening    GamePhase = "opening"
	PhaseMiddlegame GamePhase = "middlegame"
	PhaseEndgame    GamePhase = "endgame"
)
