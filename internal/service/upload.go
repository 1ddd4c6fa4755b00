package service

import (
	"context"
	"encoding/json"
	"time"

	"PuzzleSync/internal/interfaces"
	"PuzzleSync/internal/model"

	"github.com/sirupsen/logrus"
)

// UploadGame 上传请求中的单局对局（分析管线产出，引擎评估已完成）
type UploadGame struct {
	Date        string            `json:"date"`    // 对局日期 2006-01-02
	Tournament  string            `json:"tournament"`
	Opponent    string            `json:"opponent"`
	Color       string            `json:"color" binding:"required"`
	Result      string            `json:"result" binding:"required"`
	ECO         string            `json:"eco"`
	TimeControl string            `json:"time_control"`
	PGN         string            `json:"pgn"`
	Headers     map[string]string `json:"headers"`
	Blunders    []UploadBlunder   `json:"blunders"`
}

// UploadBlunder 上传请求中的单个已检测失误
type UploadBlunder struct {
	MoveNumber    int    `json:"move_number"`
	Move          string `json:"move"`
	PositionFEN   string `json:"position_fen"`
	TacticalTheme string `json:"tactical_theme"`
	GamePhase     string `json:"game_phase"`
	EvalBefore    int    `json:"eval_before"`
	EvalAfter     int    `json:"eval_after"`
	CentipawnLoss int    `json:"centipawn_loss"`
}

// UploadResult 上传处理结果
type UploadResult struct {
	Games    int  `json:"games"`    // 成功落库的对局数
	Failed   int  `json:"failed"`   // 落库失败的对局数
	Blunders int  `json:"blunders"` // 落库的失误总数
	Enqueued int  `json:"enqueued"` // 实际入队的失误数（去重后）
	Bulk     bool `json:"bulk"`     // 是否按批量上传处理
}

// UploadService 上传编排器：落库对局与失误，逐个失误入队等待谜题链接。
// 批量上传（多于一局）期间停用队列，避免排空与落库抢资源，结束后恢复；
// 入队本身零阻塞，上传响应不因谜题匹配延迟一毫秒
type UploadService struct {
	games  interfaces.GameStore
	queue  *LinkQueue
	logger *logrus.Logger
}

func NewUploadService(games interfaces.GameStore, queue *LinkQueue, logger *logrus.Logger) *UploadService {
	return &UploadService{
		games:  games,
		queue:  queue,
		logger: logger,
	}
}

// ProcessUpload 处理一次上传。单局失败只记日志不中断其余对局（每局独立事务）
func (s *UploadService) ProcessUpload(ctx context.Context, uploads []UploadGame) (*UploadResult, error) {
	result := &UploadResult{Bulk: len(uploads) > 1}

	if result.Bulk {
		s.queue.SetEnabled(false)
		defer s.queue.SetEnabled(true)
	}

	for i := range uploads {
		game, blunders := buildGameModels(&uploads[i])
		if err := s.games.SaveGameWithBlunders(ctx, game, blunders); err != nil {
			s.logger.WithError(err).WithField("opponent", game.Opponent).Warn("对局落库失败，跳过")
			result.Failed++
			continue
		}
		result.Games++
		result.Blunders += len(blunders)
		for _, b := range blunders {
			if s.queue.Enqueue(b.ID) {
				result.Enqueued++
			}
		}
	}

	s.logger.Infof("上传处理完成：%d局入库，%d个失误入队", result.Games, result.Enqueued)
	return result, nil
}

// buildGameModels 上传结构转数据库模型
func buildGameModels(u *UploadGame) (*model.Game, []*model.Blunder) {
	playedAt, err := time.Parse("2006-01-02", u.Date)
	if err != nil {
		playedAt = time.Now()
	}
	var headers []byte
	if len(u.Headers) > 0 {
		headers, _ = json.Marshal(u.Headers)
	}
	game := &model.Game{
		PlayedAt:    playedAt,
		Tournament:  u.Tournament,
		Opponent:    u.Opponent,
		Color:       u.Color,
		Result:      u.Result,
		ECO:         u.ECO,
		TimeControl: u.TimeControl,
		PGN:         u.PGN,
		Headers:     headers,
	}

	blunders := make([]*model.Blunder, 0, len(u.Blunders))
	for _, b := range u.Blunders {
		blunders = append(blunders, &model.Blunder{
			MoveNumber:    b.MoveNumber,
			Move:          b.Move,
			PositionFEN:   b.PositionFEN,
			TacticalTheme: model.TacticalTheme(b.TacticalTheme),
			GamePhase:     model.GamePhase(b.GamePhase),
			EvalBefore:    b.EvalBefore,
			EvalAfter:     b.EvalAfter,
			CentipawnLoss: b.CentipawnLoss,
		})
	}
	return game, blunders
}
