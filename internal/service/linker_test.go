package service

import (
	"context"
	"fmt"
	"testing"

	"PuzzleSync/internal/config"
	"PuzzleSync/internal/interfaces"
	"PuzzleSync/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalysis struct {
	details map[uint64]*interfaces.BlunderDetail
	err     error
}

func (f *fakeAnalysis) GetBlunderDetail(_ context.Context, id uint64) (*interfaces.BlunderDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.details[id], nil
}

type fakeIndex struct {
	candidates []*model.PuzzleCandidate
	lastQuery  interfaces.SearchQuery
	err        error
}

func (f *fakeIndex) Search(_ context.Context, q interfaces.SearchQuery) ([]*model.PuzzleCandidate, error) {
	f.lastQuery = q
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

// fakeSink 按 (blunderID, puzzleID) 去重，记录落库顺序
type fakeSink struct {
	rows  map[string]float64
	order []string
	err   error
}

func newFakeSink() *fakeSink {
	return &fakeSink{rows: make(map[string]float64)}
}

func (f *fakeSink) UpsertLink(_ context.Context, blunderID uint64, puzzleID string, score float64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	key := fmt.Sprintf("%d/%s", blunderID, puzzleID)
	if _, ok := f.rows[key]; ok {
		return false, nil
	}
	f.rows[key] = score
	f.order = append(f.order, puzzleID)
	return true, nil
}

func linkerTestConfig() *config.Config {
	return &config.Config{
		Queue: config.QueueConfig{BatchSize: 20, BatchDelayMS: 100, MaxResults: 10},
		Index: config.IndexConfig{
			SearchTimeoutMS: 300,
			OverfetchFactor: 5,
			RatingBand:      300,
			DefaultRating:   1500,
		},
	}
}

func hangingPieceDetail(id uint64) *interfaces.BlunderDetail {
	return &interfaces.BlunderDetail{
		BlunderID:     id,
		TacticalTheme: model.ThemeHangingPiece,
		GamePhase:     model.PhaseMiddlegame,
		PositionFEN:   "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
		CentipawnLoss: 320,
	}
}

// 50个候选里按 主题重合 > 受欢迎度 > 难度距离 的顺序取前10
func TestLinkBlunderRanksAndPersistsTopTen(t *testing.T) {
	cand := func(id string, themes []string, rating, popularity int) *model.PuzzleCandidate {
		return &model.PuzzleCandidate{ID: id, Themes: themes, Rating: rating, Popularity: popularity}
	}
	both := []string{"hangingPiece", "discoveredAttack", "middlegame"}
	one := []string{"hangingPiece", "middlegame"}

	candidates := []*model.PuzzleCandidate{
		// 双主题命中：重合数相同时先比受欢迎度，再比难度距离
		cand("b2", both, 1400, 95),
		cand("a1", both, 1500, 95),
		cand("c3", both, 1500, 80),
		// 单主题命中，受欢迎度阶梯
		cand("d00", one, 1500, 90),
		cand("d01", one, 1500, 89),
		cand("d02", one, 1500, 88),
		cand("d03", one, 1500, 87),
		cand("d04", one, 1500, 86),
		cand("d05", one, 1500, 85),
		cand("d06", one, 1500, 84),
	}
	// 填充到50个：低受欢迎度的单主题候选，全部排不进前10
	for i := 0; i < 40; i++ {
		candidates = append(candidates, cand(fmt.Sprintf("f%02d", i), one, 1500, 10))
	}

	analysis := &fakeAnalysis{details: map[uint64]*interfaces.BlunderDetail{42: hangingPieceDetail(42)}}
	index := &fakeIndex{candidates: candidates}
	sink := newFakeSink()
	linker := NewLinkerService(analysis, index, sink, linkerTestConfig(), testLogger())

	result, err := linker.LinkBlunder(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 10, result.Linked)
	assert.False(t, result.Skipped)

	// 落库顺序即排序结果
	assert.Equal(t, []string{"a1", "b2", "c3", "d00", "d01", "d02", "d03", "d04", "d05", "d06"}, sink.order)

	// 权重 = 重合数*1000 + 受欢迎度
	assert.Equal(t, float64(2095), sink.rows["42/a1"])
	assert.Equal(t, float64(1090), sink.rows["42/d00"])

	// 检索条件：主题映射 + 阶段过滤 + 超额拉取
	assert.Contains(t, index.lastQuery.Themes, "hangingPiece")
	assert.Contains(t, index.lastQuery.Themes, "discoveredAttack")
	assert.Equal(t, "middlegame", index.lastQuery.PhaseFilter)
	assert.Equal(t, 1500, index.lastQuery.RatingTarget)
	assert.Equal(t, 50, index.lastQuery.Limit)
}

// 重复链接同一失误不产生新行
func TestLinkBlunderIdempotent(t *testing.T) {
	candidates := make([]*model.PuzzleCandidate, 0, 10)
	for i := 0; i < 10; i++ {
		candidates = append(candidates, &model.PuzzleCandidate{
			ID:         fmt.Sprintf("p%02d", i),
			Themes:     []string{"hangingPiece"},
			Rating:     1500,
			Popularity: 90 - i,
		})
	}
	analysis := &fakeAnalysis{details: map[uint64]*interfaces.BlunderDetail{7: hangingPieceDetail(7)}}
	sink := newFakeSink()
	linker := NewLinkerService(analysis, &fakeIndex{candidates: candidates}, sink, linkerTestConfig(), testLogger())

	first, err := linker.LinkBlunder(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 10, first.Linked)

	second, err := linker.LinkBlunder(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Linked, "重复链接必须被幂等吸收")
	assert.Len(t, sink.rows, 10)
}

// 重合数与受欢迎度全同时，按难度距离再按谜题ID，结果可复现
func TestRankCandidatesTieBreakIsDeterministic(t *testing.T) {
	candidates := []*model.PuzzleCandidate{
		{ID: "z9", Themes: []string{"fork"}, Rating: 1500, Popularity: 70},
		{ID: "far", Themes: []string{"fork"}, Rating: 1900, Popularity: 70},
		{ID: "z1", Themes: []string{"fork"}, Rating: 1500, Popularity: 70},
	}

	ranked := rankCandidates(candidates, []string{"fork"}, 1500)
	require.Len(t, ranked, 3)
	assert.Equal(t, "z1", ranked[0].candidate.ID)
	assert.Equal(t, "z9", ranked[1].candidate.ID)
	assert.Equal(t, "far", ranked[2].candidate.ID)
}

// 失误已被删除：跳过，不报错，不落库
func TestLinkBlunderSkipsMissingBlunder(t *testing.T) {
	sink := newFakeSink()
	linker := NewLinkerService(
		&fakeAnalysis{details: map[uint64]*interfaces.BlunderDetail{}},
		&fakeIndex{},
		sink,
		linkerTestConfig(),
		testLogger(),
	)

	result, err := linker.LinkBlunder(context.Background(), 999)
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Equal(t, 0, result.Linked)
	assert.Empty(t, sink.rows)
}

// 目录无候选：正常返回，零链接
func TestLinkBlunderNoCandidates(t *testing.T) {
	sink := newFakeSink()
	linker := NewLinkerService(
		&fakeAnalysis{details: map[uint64]*interfaces.BlunderDetail{1: hangingPieceDetail(1)}},
		&fakeIndex{},
		sink,
		linkerTestConfig(),
		testLogger(),
	)

	result, err := linker.LinkBlunder(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, 0, result.Linked)
}

// 目录检索失败上抛，由队列记录后跳过
func TestLinkBlunderPropagatesIndexError(t *testing.T) {
	linker := NewLinkerService(
		&fakeAnalysis{details: map[uint64]*interfaces.BlunderDetail{1: hangingPieceDetail(1)}},
		&fakeIndex{err: assert.AnError},
		newFakeSink(),
		linkerTestConfig(),
		testLogger(),
	)

	_, err := linker.LinkBlunder(context.Background(), 1)
	require.Error(t, err)
}

// 单条落库失败不影响其余候选
func TestLinkBlunderSinkFailureDoesNotAbort(t *testing.T) {
	sink := newFakeSink()
	sink.err = assert.AnError
	linker := NewLinkerService(
		&fakeAnalysis{details: map[uint64]*interfaces.BlunderDetail{1: hangingPieceDetail(1)}},
		&fakeIndex{candidates: []*model.PuzzleCandidate{
			{ID: "p1", Themes: []string{"hangingPiece"}, Rating: 1500, Popularity: 50},
		}},
		sink,
		linkerTestConfig(),
		testLogger(),
	)

	result, err := linker.LinkBlunder(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Linked)
}
