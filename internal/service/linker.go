package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"PuzzleSync/internal/config"
	"PuzzleSync/internal/interfaces"
	"PuzzleSync/internal/model"

	"github.com/sirupsen/logrus"
)

// LinkResult 单个失误的链接结果
type LinkResult struct {
	Linked  int  // 新建（含已确认存在）的链接数
	Skipped bool // 失误已不存在，按无事发生处理
}

// LinkerService 失误-谜题链接器：主题映射 → 目录检索 → 打分排序 → 幂等落库。
// 单个失误的链接完全独立，失败不影响同批其他失误（由队列兜住）
type LinkerService struct {
	analysis      interfaces.AnalysisStore
	index         interfaces.MatchIndexClient
	sink          interfaces.LinkSink
	maxResults    int
	overfetch     int
	searchTimeout time.Duration
	defaultRating int
	logger        *logrus.Logger
}

func NewLinkerService(
	analysis interfaces.AnalysisStore,
	index interfaces.MatchIndexClient,
	sink interfaces.LinkSink,
	cfg *config.Config,
	logger *logrus.Logger,
) *LinkerService {
	return &LinkerService{
		analysis:      analysis,
		index:         index,
		sink:          sink,
		maxResults:    cfg.Queue.MaxResults,
		overfetch:     cfg.Index.OverfetchFactor,
		searchTimeout: cfg.Index.SearchTimeout(),
		defaultRating: cfg.Index.DefaultRating,
		logger:        logger,
	}
}

// LinkBlunder 为一个失误检索并落库最多 maxResults 条谜题链接。
// 失误已删除返回 Skipped（后台流程的 not-found 不是错误）；
// 目录检索带超时兜底，超时视同检索失败上抛，由队列记录后跳过该条
func (s *LinkerService) LinkBlunder(ctx context.Context, blunderID uint64) (*LinkResult, error) {
	// 1. 读失误详情
	detail, err := s.analysis.GetBlunderDetail(ctx, blunderID)
	if err != nil {
		return nil, fmt.Errorf("查询失误详情失败: %w", err)
	}
	if detail == nil {
		s.logger.WithField("blunder_id", blunderID).Debug("失误已不存在，跳过链接")
		return &LinkResult{Skipped: true}, nil
	}

	// 2. 战术主题 → 目录主题标签
	mapping := MapThemes(detail.TacticalTheme, detail.GamePhase)

	// 3. 目录检索（超额拉取给排序留余量；带超时防止目录慢查询拖垮整批）
	target := s.defaultRating
	searchCtx, cancel := context.WithTimeout(ctx, s.searchTimeout)
	defer cancel()
	candidates, err := s.index.Search(searchCtx, interfaces.SearchQuery{
		Themes:       mapping.ProviderThemes,
		PhaseFilter:  mapping.PhaseFilter,
		RatingTarget: target,
		Limit:        s.maxResults * s.overfetch,
	})
	if err != nil {
		return nil, fmt.Errorf("检索谜题目录失败: %w", err)
	}
	if len(candidates) == 0 {
		s.logger.WithFields(logrus.Fields{
			"blunder_id": blunderID,
			"themes":     mapping.ProviderThemes,
		}).Debug("目录无匹配候选")
		return &LinkResult{}, nil
	}

	// 4. 打分排序，取前 maxResults
	ranked := rankCandidates(candidates, mapping.ProviderThemes, target)
	if len(ranked) > s.maxResults {
		ranked = ranked[:s.maxResults]
	}

	// 5. 幂等落库。单条写入失败只记日志，不中断剩余候选
	linked := 0
	for _, rc := range ranked {
		created, err := s.sink.UpsertLink(ctx, blunderID, rc.candidate.ID, rc.score)
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"blunder_id": blunderID,
				"puzzle_id":  rc.candidate.ID,
			}).Warn("写入谜题链接失败")
			continue
		}
		if created {
			linked++
		}
	}
	return &LinkResult{Linked: linked}, nil
}

// rankedCandidate 打分后的候选
type rankedCandidate struct {
	candidate *model.PuzzleCandidate
	overlap   int     // 与请求主题的重合数
	score     float64 // 落库的排序权重
}

// rankCandidates 综合打分排序：主题重合数 > 受欢迎度 > 难度分距目标的距离 > 谜题ID。
// 末位按ID升序，保证同一目录下排序完全可复现
func rankCandidates(candidates []*model.PuzzleCandidate, themes []string, ratingTarget int) []rankedCandidate {
	themeSet := make(map[string]struct{}, len(themes))
	for _, t := range themes {
		themeSet[t] = struct{}{}
	}

	ranked := make([]rankedCandidate, 0, len(candidates))
	for _, c := range candidates {
		overlap := 0
		for _, t := range c.Themes {
			if _, ok := themeSet[t]; ok {
				overlap++
			}
		}
		ranked = append(ranked, rankedCandidate{
			candidate: c,
			overlap:   overlap,
			score:     float64(overlap)*1000 + float64(c.Popularity),
		})
	}

	ratingDist := func(c *model.PuzzleCandidate) int {
		d := c.Rating - ratingTarget
		if d < 0 {
			d = -d
		}
		return d
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.overlap != b.overlap {
			return a.overlap > b.overlap
		}
		if a.candidate.Popularity != b.candidate.Popularity {
			return a.candidate.Popularity > b.candidate.Popularity
		}
		if da, db := ratingDist(a.candidate), ratingDist(b.candidate); da != db {
			return da < db
		}
		return a.candidate.ID < b.candidate.ID
	})
	return ranked
}
