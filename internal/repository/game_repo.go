package repository

import (
	"context"
	"errors"
	"fmt"

	"PuzzleSync/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GameRepository 对局仓储
type GameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{db: db}
}

// SaveGameWithBlunders 对局与其失误在同一事务内写入。
// 失误行回填 game_id，任一写入失败整体回滚（不产生只有对局没有失误的半成品）
func (r *GameRepository) SaveGameWithBlunders(ctx context.Context, game *model.Game, blunders []*model.Blunder) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("开启事务失败: %w", tx.Error)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
		}
	}()

	if game.GameUUID == "" {
		game.GameUUID = uuid.NewString() // 生成全局唯一ID
	}
	if err := tx.Create(game).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("保存对局失败: %w, opponent: %s", err, game.Opponent)
	}

	for i := range blunders {
		blunders[i].GameID = game.ID
		if err := tx.Create(blunders[i]).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("保存失误失败: %w, move_number: %d", err, blunders[i].MoveNumber)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}

// GameFilter 对局列表筛选
type GameFilter struct {
	Tournament string // 赛事名称
	Opponent   string // 对手
	Color      string // 执棋颜色
	Result     string // 结果
}

// ListGames 按条件分页返回对局，日期倒序
func (r *GameRepository) ListGames(ctx context.Context, filter GameFilter, page, pageSize int) ([]*model.Game, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	db := r.db.WithContext(ctx).Model(&model.Game{})
	if filter.Tournament != "" {
		db = db.Where("tournament = ?", filter.Tournament)
	}
	if filter.Opponent != "" {
		db = db.Where("opponent = ?", filter.Opponent)
	}
	if filter.Color != "" {
		db = db.Where("color = ?", filter.Color)
	}
	if filter.Result != "" {
		db = db.Where("result = ?", filter.Result)
	}
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []*model.Game
	if err := db.Order("played_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// GetGameByUUID 按全局唯一ID查询对局，不存在时返回 (nil, nil)
func (r *GameRepository) GetGameByUUID(ctx context.Context, gameUUID string) (*model.Game, error) {
	var g model.Game
	if err := r.db.WithContext(ctx).Where("game_uuid = ?", gameUUID).First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}
