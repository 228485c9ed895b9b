package repository

import (
	"context"
	"fmt"

	"DebateSync/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotRepository 快照批次仓储
type SnapshotRepository interface {
	// SaveBatch 在一个事务内保存整批快照（同批次重复写入则覆盖更新）
	SaveBatch(ctx context.Context, platform *model.PlatformSnapshot, debates []*model.DebateSnapshot, agents []*model.AgentStatSnapshot) error
	// LatestBatchID 最近一次快照批次，无快照时返回 gorm.ErrRecordNotFound
	LatestBatchID(ctx context.Context) (string, error)
	// GetPlatformSnapshot 按批次查平台级聚合行
	GetPlatformSnapshot(ctx context.Context, batchID string) (*model.PlatformSnapshot, error)
	// ListDebateSnapshots 按批次分页查辩论快照行
	ListDebateSnapshots(ctx context.Context, batchID string, page, pageSize int) ([]*model.DebateSnapshot, int64, error)
	// ListAgentSnapshots 按批次分页查用户战绩快照行
	ListAgentSnapshots(ctx context.Context, batchID string, page, pageSize int) ([]*model.AgentStatSnapshot, int64, error)
}

type snapshotRepository struct {
	db *gorm.DB
}

// NewSnapshotRepository 创建 SnapshotRepository 实例
func NewSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

// SaveBatch 在一个事务内保存整批快照
func (r *snapshotRepository) SaveBatch(ctx context.Context, platform *model.PlatformSnapshot, debates []*model.DebateSnapshot, agents []*model.AgentStatSnapshot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "batch_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_debates", "active_debates", "resolving_debates", "resolved_debates",
				"undetermined_debates", "total_volume", "total_bounties", "total_arguments",
				"unique_participants", "top_participants",
			}),
		}).Create(platform).Error; err != nil {
			return fmt.Errorf("保存平台快照失败: %w", err)
		}
		for _, d := range debates {
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "batch_id"}, {Name: "address"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"creator", "status", "end_time", "total_side_a", "total_side_b",
					"total_bounty", "argument_count_a", "argument_count_b",
				}),
			}).Create(d).Error; err != nil {
				return fmt.Errorf("保存辩论快照失败 address=%s: %w", d.Address, err)
			}
		}
		for _, a := range agents {
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "batch_id"}, {Name: "address"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"total_winnings", "total_bets", "total_claimed", "net_profit",
					"debates_participated", "debates_won", "win_rate_bps",
				}),
			}).Create(a).Error; err != nil {
				return fmt.Errorf("保存战绩快照失败 address=%s: %w", a.Address, err)
			}
		}
		return nil
	})
}

func (r *snapshotRepository) LatestBatchID(ctx context.Context) (string, error) {
	var ps model.PlatformSnapshot
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		First(&ps).Error; err != nil {
		return "", err
	}
	return ps.BatchID, nil
}

func (r *snapshotRepository) GetPlatformSnapshot(ctx context.Context, batchID string) (*model.PlatformSnapshot, error) {
	var ps model.PlatformSnapshot
	if err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		First(&ps).Error; err != nil {
		return nil, err
	}
	return &ps, nil
}

func (r *snapshotRepository) ListDebateSnapshots(ctx context.Context, batchID string, page, pageSize int) ([]*model.DebateSnapshot, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	db := r.db.WithContext(ctx).Model(&model.DebateSnapshot{}).Where("batch_id = ?", batchID)
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []*model.DebateSnapshot
	if err := db.
		Order("id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *snapshotRepository) ListAgentSnapshots(ctx context.Context, batchID string, page, pageSize int) ([]*model.AgentStatSnapshot, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	db := r.db.WithContext(ctx).Model(&model.AgentStatSnapshot{}).Where("batch_id = ?", batchID)
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []*model.AgentStatSnapshot
	if err := db.
		Order("net_profit DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
