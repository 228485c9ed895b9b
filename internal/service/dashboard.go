package service

import (
	"context"
	"fmt"
	"math/big"

	"DebateSync/internal/chain"
	"DebateSync/internal/interfaces"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// tokenDecimals 链上金额为 18 位定点，仅在本层做十进制格式化（Reader 不做）
const tokenDecimals = 18

// DashboardService 面向前端的聚合服务：合并 Reader 输出与 Factory 用户台账，
// 计算派生百分比并完成金额格式化。排序、筛选等展示逻辑留给前端。
type DashboardService struct {
	reader interfaces.DebateReader
	logger *logrus.Logger
}

// NewDashboardService 创建 DashboardService
func NewDashboardService(reader interfaces.DebateReader, logger *logrus.Logger) *DashboardService {
	return &DashboardService{
		reader: reader,
		logger: logger,
	}
}

// ===== 列表/详情 DTO =====

// PlatformOverview 平台总览（计数器 + 全局聚合一次性返回）
type PlatformOverview struct {
	TotalDebates        uint64 `json:"total_debates"`
	ActiveDebates       uint64 `json:"active_debates"`
	ResolvingDebates    uint64 `json:"resolving_debates"`
	ResolvedDebates     uint64 `json:"resolved_debates"`
	UndeterminedDebates uint64 `json:"undetermined_debates"`
	TotalVolume         string `json:"total_volume"`
	TotalBounties       string `json:"total_bounties"`
	TotalArguments      uint64 `json:"total_arguments"`
	UniqueParticipants  int    `json:"unique_participants"`
}

// DebateRow 列表页单个辩论行
type DebateRow struct {
	Address        string  `json:"address"`
	Creator        string  `json:"creator"`
	Status         string  `json:"status"`
	EndTime        int64   `json:"end_time"` // 截止时间戳（毫秒）
	TotalSideA     string  `json:"total_side_a"`
	TotalSideB     string  `json:"total_side_b"`
	TotalBounty    string  `json:"total_bounty"`
	ArgumentCountA uint64  `json:"argument_count_a"`
	ArgumentCountB uint64  `json:"argument_count_b"`
	SideASharePct  float64 `json:"side_a_share_pct"`
	SideBSharePct  float64 `json:"side_b_share_pct"`
}

// DebateListResult 列表返回
type DebateListResult struct {
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Total    int         `json:"total"`
	Items    []DebateRow `json:"items"`
}

// ParticipantRow 参与者名册行
type ParticipantRow struct {
	Address       string `json:"address"`
	ArgumentCount uint64 `json:"argument_count"`
	TotalStaked   string `json:"total_staked"`
}

// DebateDetail 详情页：单个辩论 + 该辩论的参与者名册
type DebateDetail struct {
	Debate       DebateRow        `json:"debate"`
	Participants []ParticipantRow `json:"participants"`
}

// AgentRow 用户战绩行（台账透传 + 派生胜率百分比）
type AgentRow struct {
	Address             string  `json:"address"`
	TotalWinnings       string  `json:"total_winnings"`
	TotalBets           string  `json:"total_bets"`
	TotalClaimed        string  `json:"total_claimed"`
	NetProfit           string  `json:"net_profit"`
	DebatesParticipated uint64  `json:"debates_participated"`
	DebatesWon          uint64  `json:"debates_won"`
	WinRatePct          float64 `json:"win_rate_pct"`
}

// PlatformOverview 平台总览。计数器与全局聚合互不依赖，并行取回后合并。
func (s *DashboardService) PlatformOverview(ctx context.Context) (*PlatformOverview, error) {
	var (
		stats *chain.PlatformStats
		agg   *chain.AggregateStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.reader.PlatformStats(gctx)
		return err
	})
	g.Go(func() error {
		debates, err := s.reader.AllDebates(gctx)
		if err != nil {
			return err
		}
		agg, err = s.reader.AggregateStats(gctx, debates)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &PlatformOverview{
		TotalDebates:        stats.TotalDebates,
		ActiveDebates:       stats.ActiveDebates,
		ResolvingDebates:    stats.ResolvingDebates,
		ResolvedDebates:     stats.ResolvedDebates,
		UndeterminedDebates: stats.UndeterminedDebates,
		TotalVolume:         formatAmount(agg.TotalVolume),
		TotalBounties:       formatAmount(agg.TotalBounties),
		TotalArguments:      agg.TotalArguments,
		UniqueParticipants:  agg.UniqueParticipants,
	}, nil
}

// ListDebates 按范围分页返回辩论列表。scope 取 all / active；
// 分页只是对 Factory 地址数组的简单切片。
func (s *DashboardService) ListDebates(ctx context.Context, scope string, page, pageSize int) (*DebateListResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	var (
		addrs []common.Address
		err   error
	)
	switch scope {
	case "", "all":
		addrs, err = s.reader.AllDebates(ctx)
	case "active":
		addrs, err = s.reader.ActiveDebates(ctx)
	default:
		return nil, fmt.Errorf("未知 scope: %s", scope)
	}
	if err != nil {
		return nil, err
	}

	result := &DebateListResult{
		Page:     page,
		PageSize: pageSize,
		Total:    len(addrs),
		Items:    []DebateRow{},
	}
	start := (page - 1) * pageSize
	if start >= len(addrs) {
		return result, nil
	}
	end := start + pageSize
	if end > len(addrs) {
		end = len(addrs)
	}

	summaries, err := s.reader.DebateSummaries(ctx, addrs[start:end])
	if err != nil {
		return nil, err
	}
	result.Items = make([]DebateRow, 0, len(summaries))
	for _, sum := range summaries {
		result.Items = append(result.Items, toDebateRow(sum))
	}
	return result, nil
}

// DebateDetail 单个辩论详情 + 参与者名册
func (s *DashboardService) DebateDetail(ctx context.Context, address string) (*DebateDetail, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("辩论地址非法: %s", address)
	}
	target := []common.Address{common.HexToAddress(address)}

	summaries, err := s.reader.DebateSummaries(ctx, target)
	if err != nil {
		return nil, err
	}
	participants, err := s.reader.ParticipantDetails(ctx, target, 0)
	if err != nil {
		return nil, err
	}

	detail := &DebateDetail{
		Debate:       toDebateRow(summaries[0]),
		Participants: toParticipantRows(participants),
	}
	return detail, nil
}

// Participants 全平台参与者名册（首次出现序，maxResults<=0 不设上限）
func (s *DashboardService) Participants(ctx context.Context, maxResults int) ([]ParticipantRow, error) {
	debates, err := s.reader.AllDebates(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.reader.ParticipantDetails(ctx, debates, maxResults)
	if err != nil {
		return nil, err
	}
	return toParticipantRows(records), nil
}

// Creators 全平台去重创建者列表
func (s *DashboardService) Creators(ctx context.Context) ([]string, error) {
	debates, err := s.reader.AllDebates(ctx)
	if err != nil {
		return nil, err
	}
	creators, err := s.reader.DebateCreators(ctx, debates)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(creators))
	for _, c := range creators {
		out = append(out, c.Hex())
	}
	return out, nil
}

// Agents 批量查询用户战绩并计算派生胜率。台账数据视为外部已正确的账本，
// 本层只格式化，不重算净盈亏与胜率。
func (s *DashboardService) Agents(ctx context.Context, addresses []string) ([]AgentRow, error) {
	if len(addresses) == 0 {
		return []AgentRow{}, nil
	}
	addrs := make([]common.Address, 0, len(addresses))
	for _, a := range addresses {
		if !common.IsHexAddress(a) {
			return nil, fmt.Errorf("用户地址非法: %s", a)
		}
		addrs = append(addrs, common.HexToAddress(a))
	}
	stats, err := s.reader.AgentStatsBatch(ctx, addrs)
	if err != nil {
		return nil, err
	}
	rows := make([]AgentRow, 0, len(stats))
	for _, st := range stats {
		rows = append(rows, AgentRow{
			Address:             st.Address.Hex(),
			TotalWinnings:       formatAmount(st.TotalWinnings),
			TotalBets:           formatAmount(st.TotalBets),
			TotalClaimed:        formatAmount(st.TotalClaimed),
			NetProfit:           formatAmount(st.NetProfit),
			DebatesParticipated: st.DebatesParticipated.Uint64(),
			DebatesWon:          st.DebatesWon.Uint64(),
			WinRatePct:          bpsToPct(st.WinRateBps),
		})
	}
	return rows, nil
}

// ===== 派生计算与格式化（仅在本层出现） =====

func toDebateRow(sum chain.DebateSummary) DebateRow {
	pctA, pctB := poolSharePct(sum.TotalSideA, sum.TotalSideB)
	return DebateRow{
		Address:        sum.Address.Hex(),
		Creator:        sum.Creator.Hex(),
		Status:         sum.Status.String(),
		EndTime:        sum.EndDate.Int64() * 1000,
		TotalSideA:     formatAmount(sum.TotalSideA),
		TotalSideB:     formatAmount(sum.TotalSideB),
		TotalBounty:    formatAmount(sum.TotalBounty),
		ArgumentCountA: sum.ArgumentCountA,
		ArgumentCountB: sum.ArgumentCountB,
		SideASharePct:  pctA,
		SideBSharePct:  pctB,
	}
}

func toParticipantRows(records []chain.ParticipantRecord) []ParticipantRow {
	rows := make([]ParticipantRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, ParticipantRow{
			Address:       rec.Address.Hex(),
			ArgumentCount: rec.ArgumentCount,
			TotalStaked:   formatAmount(rec.TotalStaked),
		})
	}
	return rows
}

// formatAmount 18 位定点转十进制字符串
func formatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return decimal.NewFromBigInt(v, -tokenDecimals).String()
}

// poolSharePct 两侧池占比（百分比，保留两位小数）。双侧皆空时返回 0。
func poolSharePct(a, b *big.Int) (float64, float64) {
	da := decimal.NewFromBigInt(a, -tokenDecimals)
	db := decimal.NewFromBigInt(b, -tokenDecimals)
	total := da.Add(db)
	if total.IsZero() {
		return 0, 0
	}
	hundred := decimal.NewFromInt(100)
	pctA, _ := da.Mul(hundred).Div(total).Round(2).Float64()
	pctB, _ := db.Mul(hundred).Div(total).Round(2).Float64()
	return pctA, pctB
}

// bpsToPct 万分比转百分比
func bpsToPct(bps *big.Int) float64 {
	if bps == nil {
		return 0
	}
	pct, _ := decimal.NewFromBigInt(bps, 0).Div(decimal.NewFromInt(100)).Round(2).Float64()
	return pct
}
