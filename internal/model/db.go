package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// DebateSnapshot 快照批次内的单个辩论汇总行。
// 金额列为 18 位定点（numeric(38,18)），与链上精度一致。
type DebateSnapshot struct {
	ID             uint64          `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	BatchID        string          `gorm:"column:batch_id;type:varchar(64);not null;uniqueIndex:uk_batch_debate;index;comment:快照批次UUID"`
	Address        string          `gorm:"column:address;type:varchar(64);not null;uniqueIndex:uk_batch_debate;comment:辩论合约地址"`
	Creator        string          `gorm:"column:creator;type:varchar(64);not null;comment:创建者地址"`
	Status         string          `gorm:"column:status;type:varchar(16);not null;comment:状态：active/resolving/resolved/undetermined"`
	EndTime        time.Time       `gorm:"column:end_time;type:timestamp;not null;comment:截止时间"`
	TotalSideA     decimal.Decimal `gorm:"column:total_side_a;type:numeric(38,18);not null;comment:A侧池总额"`
	TotalSideB     decimal.Decimal `gorm:"column:total_side_b;type:numeric(38,18);not null;comment:B侧池总额"`
	TotalBounty    decimal.Decimal `gorm:"column:total_bounty;type:numeric(38,18);not null;comment:赏金总额"`
	ArgumentCountA int64           `gorm:"column:argument_count_a;type:bigint;not null;comment:A侧论点数"`
	ArgumentCountB int64           `gorm:"column:argument_count_b;type:bigint;not null;comment:B侧论点数"`
	CreatedAt      time.Time       `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
}

// AgentStatSnapshot 快照批次内的单个用户战绩行（Factory 台账透传落库）
type AgentStatSnapshot struct {
	ID                  uint64          `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	BatchID             string          `gorm:"column:batch_id;type:varchar(64);not null;uniqueIndex:uk_batch_agent;index;comment:快照批次UUID"`
	Address             string          `gorm:"column:address;type:varchar(64);not null;uniqueIndex:uk_batch_agent;comment:用户钱包地址"`
	TotalWinnings       decimal.Decimal `gorm:"column:total_winnings;type:numeric(38,18);default:0;comment:累计赢取"`
	TotalBets           decimal.Decimal `gorm:"column:total_bets;type:numeric(38,18);default:0;comment:累计投注"`
	TotalClaimed        decimal.Decimal `gorm:"column:total_claimed;type:numeric(38,18);default:0;comment:累计领取"`
	NetProfit           decimal.Decimal `gorm:"column:net_profit;type:numeric(38,18);default:0;comment:净盈亏（可为负）"`
	DebatesParticipated int64           `gorm:"column:debates_participated;type:bigint;default:0;comment:参与场次"`
	DebatesWon          int64           `gorm:"column:debates_won;type:bigint;default:0;comment:获胜场次"`
	WinRateBps          int64           `gorm:"column:win_rate_bps;type:bigint;default:0;comment:胜率（万分比）"`
	CreatedAt           time.Time       `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
}

// PlatformSnapshot 每个快照批次一行的平台级聚合
type PlatformSnapshot struct {
	ID                  uint64          `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	BatchID             string          `gorm:"column:batch_id;type:varchar(64);uniqueIndex;not null;comment:快照批次UUID"`
	TotalDebates        int64           `gorm:"column:total_debates;type:bigint;not null;comment:辩论总数"`
	ActiveDebates       int64           `gorm:"column:active_debates;type:bigint;not null;comment:进行中数"`
	ResolvingDebates    int64           `gorm:"column:resolving_debates;type:bigint;not null;comment:结算中数"`
	ResolvedDebates     int64           `gorm:"column:resolved_debates;type:bigint;not null;comment:已结算数"`
	UndeterminedDebates int64           `gorm:"column:undetermined_debates;type:bigint;not null;comment:无法判定数"`
	TotalVolume         decimal.Decimal `gorm:"column:total_volume;type:numeric(38,18);not null;comment:全平台池总额"`
	TotalBounties       decimal.Decimal `gorm:"column:total_bounties;type:numeric(38,18);not null;comment:全平台赏金总额"`
	TotalArguments      int64           `gorm:"column:total_arguments;type:bigint;not null;comment:论点总数"`
	UniqueParticipants  int64           `gorm:"column:unique_participants;type:bigint;not null;comment:去重参与者数"`
	TopParticipants     datatypes.JSON  `gorm:"column:top_participants;type:jsonb;comment:头部参与者列表"`
	CreatedAt           time.Time       `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
}

func (DebateSnapshot) TableName() string    { return "debate_snapshots" }
func (AgentStatSnapshot) TableName() string { return "agent_stat_snapshots" }
func (PlatformSnapshot) TableName() string  { return "platform_snapshots" }
