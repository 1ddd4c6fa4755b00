package service

import (
	"context"
	"testing"
	"time"

	"PuzzleSync/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGameStore 模拟落库：给失误分配自增ID，并记录保存期间观察到的队列状态
type fakeGameStore struct {
	nextID             uint64
	saved              int
	failOn             int // 第N次调用返回错误（从1数起，0表示不失败）
	queue              *LinkQueue
	enabledDuringSaves []bool
}

func (f *fakeGameStore) SaveGameWithBlunders(_ context.Context, game *model.Game, blunders []*model.Blunder) error {
	if f.queue != nil {
		f.enabledDuringSaves = append(f.enabledDuringSaves, f.queue.Snapshot().Enabled)
	}
	f.saved++
	if f.failOn > 0 && f.saved == f.failOn {
		return assert.AnError
	}
	game.ID = uint64(f.saved)
	for _, b := range blunders {
		f.nextID++
		b.ID = f.nextID
		b.GameID = game.ID
	}
	return nil
}

func uploadGame(opponent string, blunderCount int) UploadGame {
	g := UploadGame{
		Date:     "2026-08-20",
		Opponent: opponent,
		Color:    "white",
		Result:   "0-1",
	}
	for i := 0; i < blunderCount; i++ {
		g.Blunders = append(g.Blunders, UploadBlunder{
			MoveNumber:    10 + i,
			Move:          "Qxb7",
			PositionFEN:   "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
			TacticalTheme: "hanging_piece",
			GamePhase:     "middlegame",
			CentipawnLoss: 250,
		})
	}
	return g
}

// 单局上传：队列保持启用，失误全部入队
func TestProcessUploadSingleGame(t *testing.T) {
	linker := &fakeLinker{}
	queue := NewLinkQueue(linker, queueTestConfig(20, 10), testLogger())
	store := &fakeGameStore{queue: queue}
	svc := NewUploadService(store, queue, testLogger())

	result, err := svc.ProcessUpload(context.Background(), []UploadGame{uploadGame("Ivanov", 3)})
	require.NoError(t, err)

	assert.False(t, result.Bulk)
	assert.Equal(t, 1, result.Games)
	assert.Equal(t, 3, result.Blunders)
	assert.Equal(t, 3, result.Enqueued)
	assert.Equal(t, []bool{true}, store.enabledDuringSaves)

	waitUntil(t, time.Second, func() bool { return linker.callCount() == 3 })
}

// 批量上传：落库期间队列被停用，结束后恢复并排空积压
func TestProcessUploadBulkTogglesQueue(t *testing.T) {
	linker := &fakeLinker{}
	queue := NewLinkQueue(linker, queueTestConfig(20, 10), testLogger())
	store := &fakeGameStore{queue: queue}
	svc := NewUploadService(store, queue, testLogger())

	uploads := []UploadGame{
		uploadGame("Petrov", 2),
		uploadGame("Sidorov", 2),
		uploadGame("Kuznetsov", 1),
	}
	result, err := svc.ProcessUpload(context.Background(), uploads)
	require.NoError(t, err)

	assert.True(t, result.Bulk)
	assert.Equal(t, 3, result.Games)
	assert.Equal(t, 5, result.Enqueued)
	assert.Equal(t, []bool{false, false, false}, store.enabledDuringSaves, "批量落库期间队列必须停用")

	// ProcessUpload 返回即已恢复队列，积压随后被排空
	assert.True(t, queue.Snapshot().Enabled)
	waitUntil(t, 2*time.Second, func() bool { return linker.callCount() == 5 })
	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, linker.callOrder())
}

// 单局落库失败只跳过该局，其余照常入库入队
func TestProcessUploadSkipsFailedGame(t *testing.T) {
	linker := &fakeLinker{}
	queue := NewLinkQueue(linker, queueTestConfig(20, 10), testLogger())
	store := &fakeGameStore{queue: queue, failOn: 2}
	svc := NewUploadService(store, queue, testLogger())

	uploads := []UploadGame{
		uploadGame("Petrov", 1),
		uploadGame("Sidorov", 1),
		uploadGame("Kuznetsov", 1),
	}
	result, err := svc.ProcessUpload(context.Background(), uploads)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Games)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 2, result.Blunders)
	assert.Equal(t, 2, result.Enqueued)
}

// 日期非法时回退为当前时间，不拒绝整局
func TestBuildGameModelsFallsBackOnBadDate(t *testing.T) {
	g := uploadGame("Ivanov", 1)
	g.Date = "not-a-date"

	game, blunders := buildGameModels(&g)
	assert.WithinDuration(t, time.Now(), game.PlayedAt, time.Minute)
	require.Len(t, blunders, 1)
	assert.Equal(t, model.ThemeHangingPiece, blunders[0].TacticalTheme)
	assert.Equal(t, model.PhaseMiddlegame, blunders[0].GamePhase)
}
