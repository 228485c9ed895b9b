package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"sort"
	"time"

	"DebateSync/internal/chain"
	"DebateSync/internal/interfaces"
	"DebateSync/internal/model"
	"DebateSync/internal/repository"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// SnapshotService 快照任务：把 Reader 的实时聚合结果落库，供前端冷加载与
// 历史对比。Reader 本身无状态不缓存，快照是仪表盘侧的便利层。
type SnapshotService struct {
	reader          interfaces.DebateReader
	repo            repository.SnapshotRepository
	logger          *logrus.Logger
	maxDebates      int // 单批最多覆盖的辩论数（0 为不限）
	topParticipants int // 平台快照里记录的头部参与者条数
}

// NewSnapshotService 创建 SnapshotService
func NewSnapshotService(reader interfaces.DebateReader, repo repository.SnapshotRepository, logger *logrus.Logger, maxDebates, topParticipants int) *SnapshotService {
	if topParticipants <= 0 {
		topParticipants = 20
	}
	return &SnapshotService{
		reader:          reader,
		repo:            repo,
		logger:          logger,
		maxDebates:      maxDebates,
		topParticipants: topParticipants,
	}
}

// Run 执行一次快照，返回批次 UUID。任一底层读失败则整批失败，不落半批数据。
func (s *SnapshotService) Run(ctx context.Context) (string, error) {
	batchID := uuid.NewString()
	start := time.Now()

	debates, err := s.reader.AllDebates(ctx)
	if err != nil {
		return "", fmt.Errorf("拉取辩论列表失败: %w", err)
	}
	if s.maxDebates > 0 && len(debates) > s.maxDebates {
		debates = debates[:s.maxDebates]
	}

	stats, err := s.reader.PlatformStats(ctx)
	if err != nil {
		return "", fmt.Errorf("拉取平台计数失败: %w", err)
	}
	agg, err := s.reader.AggregateStats(ctx, debates)
	if err != nil {
		return "", fmt.Errorf("全局聚合失败: %w", err)
	}
	summaries, err := s.reader.DebateSummaries(ctx, debates)
	if err != nil {
		return "", fmt.Errorf("拉取辩论汇总失败: %w", err)
	}
	participants, err := s.reader.ParticipantDetails(ctx, debates, 0)
	if err != nil {
		return "", fmt.Errorf("拉取参与者名册失败: %w", err)
	}

	debateRows := make([]*model.DebateSnapshot, 0, len(summaries))
	for _, sum := range summaries {
		debateRows = append(debateRows, &model.DebateSnapshot{
			BatchID:        batchID,
			Address:        sum.Address.Hex(),
			Creator:        sum.Creator.Hex(),
			Status:         sum.Status.String(),
			EndTime:        time.Unix(sum.EndDate.Int64(), 0).UTC(),
			TotalSideA:     amountDecimal(sum.TotalSideA),
			TotalSideB:     amountDecimal(sum.TotalSideB),
			TotalBounty:    amountDecimal(sum.TotalBounty),
			ArgumentCountA: int64(sum.ArgumentCountA),
			ArgumentCountB: int64(sum.ArgumentCountB),
		})
	}

	// 名册地址再批量查 Factory 台账，形成战绩快照行
	agentRows := make([]*model.AgentStatSnapshot, 0, len(participants))
	if len(participants) > 0 {
		rosterAddrs := make([]common.Address, 0, len(participants))
		for _, p := range participants {
			rosterAddrs = append(rosterAddrs, p.Address)
		}
		agentStats, err := s.reader.AgentStatsBatch(ctx, rosterAddrs)
		if err != nil {
			return "", fmt.Errorf("拉取用户战绩失败: %w", err)
		}
		for _, st := range agentStats {
			agentRows = append(agentRows, &model.AgentStatSnapshot{
				BatchID:             batchID,
				Address:             st.Address.Hex(),
				TotalWinnings:       amountDecimal(st.TotalWinnings),
				TotalBets:           amountDecimal(st.TotalBets),
				TotalClaimed:        amountDecimal(st.TotalClaimed),
				NetProfit:           amountDecimal(st.NetProfit),
				DebatesParticipated: st.DebatesParticipated.Int64(),
				DebatesWon:          st.DebatesWon.Int64(),
				WinRateBps:          st.WinRateBps.Int64(),
			})
		}
	}

	topJSON, err := s.topParticipantsJSON(participants)
	if err != nil {
		return "", err
	}
	platformRow := &model.PlatformSnapshot{
		BatchID:             batchID,
		TotalDebates:        int64(stats.TotalDebates),
		ActiveDebates:       int64(stats.ActiveDebates),
		ResolvingDebates:    int64(stats.ResolvingDebates),
		ResolvedDebates:     int64(stats.ResolvedDebates),
		UndeterminedDebates: int64(stats.UndeterminedDebates),
		TotalVolume:         amountDecimal(agg.TotalVolume),
		TotalBounties:       amountDecimal(agg.TotalBounties),
		TotalArguments:      int64(agg.TotalArguments),
		UniqueParticipants:  int64(agg.UniqueParticipants),
		TopParticipants:     topJSON,
	}

	if err := s.repo.SaveBatch(ctx, platformRow, debateRows, agentRows); err != nil {
		return "", fmt.Errorf("快照入库失败: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"batch_id":     batchID,
		"debates":      len(debateRows),
		"participants": len(agentRows),
		"elapsed":      time.Since(start).String(),
	}).Info("快照完成")
	return batchID, nil
}

// topParticipantsJSON 名册按质押总额降序取前 N 条，序列化进平台快照行。
// Reader 输出为首次出现序，排序属于本层的展示口径。
func (s *SnapshotService) topParticipantsJSON(records []chain.ParticipantRecord) (datatypes.JSON, error) {
	rows := toParticipantRows(records)
	sort.SliceStable(rows, func(i, j int) bool {
		di, _ := decimal.NewFromString(rows[i].TotalStaked)
		dj, _ := decimal.NewFromString(rows[j].TotalStaked)
		return di.GreaterThan(dj)
	})
	if len(rows) > s.topParticipants {
		rows = rows[:s.topParticipants]
	}
	buf, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("序列化头部参与者失败: %w", err)
	}
	return datatypes.JSON(buf), nil
}

// amountDecimal 18 位定点转 decimal（入库用）
func amountDecimal(v *big.Int) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v, -tokenDecimals)
}
