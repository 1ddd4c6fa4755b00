package service

import (
	"PuzzleSync/internal/model"
)

// ThemeMapping 主题映射结果：谜题目录侧的主题标签 + 阶段过滤标签
type ThemeMapping struct {
	ProviderThemes []string // 目录侧主题标签（lichess 命名）
	PhaseFilter    string   // 阶段标签，空串表示不过滤
}

// themeTable 战术主题 → 目录主题标签的固定映射表。
// 键集即受支持的战术主题全集，未登记的主题走通用兜底
var themeTable = map[model.TacticalTheme][]string{
	model.ThemeHangingPiece:     {"hangingPiece", "discoveredAttack"},
	model.ThemeMissedFork:       {"fork"},
	model.ThemeMissedPin:        {"pin"},
	model.ThemeMissedSkewer:     {"skewer"},
	model.ThemeMissedMate:       {"mate", "mateIn2"},
	model.ThemeBackRankWeakness: {"backRankMate"},
	model.ThemeTrappedPiece:     {"trappedPiece"},
	model.ThemePositionalError:  {"advantage", "quietMove"},
	model.ThemeEndgameTechnique: {"endgame", "rookEndgame"},
}

// genericThemes 未知战术主题的通用兜底（任意战术题）
var genericThemes = []string{"crushing", "advantage"}

// phaseTable 对局阶段 → 目录阶段标签
var phaseTable = map[model.GamePhase]string{
	model.PhaseOpening:    "opening",
	model.PhaseMiddlegame: "middlegame",
	model.PhaseEndgame:    "endgame",
}

// MapThemes 纯函数：同样输入恒返回同样输出，无任何 I/O。
// 未识别的主题/阶段不报错，回退到通用映射
func MapThemes(theme model.TacticalTheme, phase model.GamePhase) ThemeMapping {
	tags, ok := themeTable[theme]
	if !ok {
		tags = genericThemes
	}
	// 拷贝一份，避免调用方改动映射表
	providerThemes := make([]string, len(tags))
	copy(providerThemes, tags)

	return ThemeMapping{
		ProviderThemes: providerThemes,
		PhaseFilter:    phaseTable[phase], // 未知阶段得到空串，即不过滤
	}
}
