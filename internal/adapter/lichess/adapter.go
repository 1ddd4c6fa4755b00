package lichess

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"PuzzleSync/internal/config"
	"PuzzleSync/internal/interfaces"
	"PuzzleSync/internal/model"
	"PuzzleSync/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

// Adapter lichess 谜题详情源（实现 PuzzleDetailProvider）。
// 仅在详情缓存未命中时被调用，调用频率天然被缓存压住
type Adapter struct {
	cfg        *config.ProviderConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewLichessAdapter(cfg *config.ProviderConfig, logger *logrus.Logger) interfaces.PuzzleDetailProvider {
	return &Adapter{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		logger:     logger,
	}
}

// FetchPuzzleDetail 拉取单个谜题详情。404 返回 (nil, nil)；
// 其余失败按配置的次数重试，全部失败才上抛
func (a *Adapter) FetchPuzzleDetail(ctx context.Context, puzzleID string) (*model.PuzzleDetail, error) {
	detailURL := fmt.Sprintf("%s/api/puzzle/%s", a.cfg.BaseURL, puzzleID)

	var lastErr error
	attempts := a.cfg.RetryCount + 1
	if attempts < 1 {
		attempts = 1
	}
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			// 简单线性退避，谜题详情不是热路径
			select {
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		detail, retryable, err := a.fetchOnce(ctx, detailURL)
		if err == nil {
			return detail, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		a.logger.WithError(err).WithField("puzzle_id", puzzleID).Warnf("拉取谜题详情失败（第%d次）", attempt+1)
	}
	return nil, lastErr
}

// fetchOnce 单次请求。返回 retryable 标记区分网络/服务端错误与不可重试的失败
func (a *Adapter) fetchOnce(ctx context.Context, detailURL string) (*model.PuzzleDetail, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, detailURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("构建请求失败: %w", err)
	}
	if a.cfg.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+a.cfg.AuthToken)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("请求谜题详情失败: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// 谜题不存在不是错误，返回空由上层按 miss 处理
		return nil, false, nil
	case resp.StatusCode != http.StatusOK:
		return nil, resp.StatusCode >= 500, fmt.Errorf("谜题详情接口返回状态 %d", resp.StatusCode)
	}

	var wire model.LichessPuzzleResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, false, fmt.Errorf("解析谜题详情失败: %w", err)
	}

	return &model.PuzzleDetail{
		ID:       wire.Puzzle.ID,
		FEN:      wire.Puzzle.FEN,
		Solution: wire.Puzzle.Solution,
		Themes:   wire.Puzzle.Themes,
		Rating:   wire.Puzzle.Rating,
	}, false, nil
}
