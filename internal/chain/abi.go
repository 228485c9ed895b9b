package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Factory 只读最小 ABI：辩论计数、地址列表、用户累计战绩
const factoryABI = `[
	{"name":"debateCount","type":"function","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]},
	{"name":"activeCount","type":"function","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]},
	{"name":"resolvingCount","type":"function","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]},
	{"name":"resolvedCount","type":"function","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]},
	{"name":"undeterminedCount","type":"function","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]},
	{"name":"allDebates","type":"function","stateMutability":"view","inputs":[],"outputs":[{"type":"address[]"}]},
	{"name":"activeDebates","type":"function","stateMutability":"view","inputs":[],"outputs":[{"type":"address[]"}]},
	{"name":"userStats","type":"function","stateMutability":"view","inputs":[{"name":"user","type":"address"}],"outputs":[
		{"name":"totalWinnings","type":"uint256"},
		{"name":"totalBets","type":"uint256"},
		{"name":"debatesParticipated","type":"uint256"},
		{"name":"debatesWon","type":"uint256"},
		{"name":"totalClaimed","type":"uint256"},
		{"name":"netProfit","type":"int256"},
		{"name":"winRateBps","type":"uint256"}
	]}
]`

// Debate 只读最小 ABI：元信息、状态、两侧论点列表
const debateABI = `[
	{"name":"info","type":"function","stateMutability":"view","inputs":[],"outputs":[
		{"name":"creator","type":"address"},
		{"name":"statement","type":"string"},
		{"name":"description","type":"string"},
		{"name":"sideAName","type":"string"},
		{"name":"sideBName","type":"string"},
		{"name":"creationDate","type":"uint256"},
		{"name":"endDate","type":"uint256"},
		{"name":"isResolved","type":"bool"},
		{"name":"isSideAWinner","type":"bool"},
		{"name":"lockedA","type":"uint256"},
		{"name":"unlockedA","type":"uint256"},
		{"name":"lockedB","type":"uint256"},
		{"name":"unlockedB","type":"uint256"},
		{"name":"winnerReasoning","type":"string"},
		{"name":"contentBytes","type":"uint256"},
		{"name":"maxContentBytes","type":"uint256"},
		{"name":"bounty","type":"uint256"}
	]},
	{"name":"status","type":"function","stateMutability":"view","inputs":[],"outputs":[{"type":"uint8"}]},
	{"name":"argumentsSideA","type":"function","stateMutability":"view","inputs":[],"outputs":[{"type":"tuple[]","components":[
		{"name":"author","type":"address"},
		{"name":"content","type":"string"},
		{"name":"timestamp","type":"uint256"},
		{"name":"amount","type":"uint256"}
	]}]},
	{"name":"argumentsSideB","type":"function","stateMutability":"view","inputs":[],"outputs":[{"type":"tuple[]","components":[
		{"name":"author","type":"address"},
		{"name":"content","type":"string"},
		{"name":"timestamp","type":"uint256"},
		{"name":"amount","type":"uint256"}
	]}]}
]`

// DebateStatus 辩论状态枚举，与合约 status() 的取值一一对应
type DebateStatus uint8

const (
	StatusActive       DebateStatus = 0 // 进行中
	StatusResolving    DebateStatus = 1 // 结算中
	StatusResolved     DebateStatus = 2 // 已结算
	StatusUndetermined DebateStatus = 3 // 无法判定
)

// Valid 是否为合法枚举值（合约返回其它值视为上游数据异常）
func (s DebateStatus) Valid() bool {
	return s <= StatusUndetermined
}

// String 返回前端使用的小写状态名
func (s DebateStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusResolving:
		return "resolving"
	case StatusResolved:
		return "resolved"
	case StatusUndetermined:
		return "undetermined"
	default:
		return "unknown"
	}
}

// DebateInfo Debate.info() 的完整返回，字段名与 ABI 输出一致
type DebateInfo struct {
	Creator         common.Address
	Statement       string
	Description     string
	SideAName       string
	SideBName       string
	CreationDate    *big.Int
	EndDate         *big.Int
	IsResolved      bool
	IsSideAWinner   bool
	LockedA         *big.Int
	UnlockedA       *big.Int
	LockedB         *big.Int
	UnlockedB       *big.Int
	WinnerReasoning string
	ContentBytes    *big.Int
	MaxContentBytes *big.Int
	Bounty          *big.Int
}

// DebateArgument 单条论点（author/amount 参与聚合，content/timestamp 仅透传）
type DebateArgument struct {
	Author    common.Address
	Content   string
	Timestamp *big.Int
	Amount    *big.Int
}

// DebateSummary 单个辩论的汇总行，顺序与输入地址一致。
// TotalSideA/TotalSideB 为 locked+unlocked 两个子余额之和（18 位定点）。
type DebateSummary struct {
	Address        common.Address
	Creator        common.Address
	EndDate        *big.Int
	Status         DebateStatus
	TotalSideA     *big.Int
	TotalSideB     *big.Int
	TotalBounty    *big.Int
	ArgumentCountA uint64
	ArgumentCountB uint64
}

// AgentStats Factory.userStats() 的透传结果，本层不重算不校验
type AgentStats struct {
	Address             common.Address
	TotalWinnings       *big.Int
	TotalBets           *big.Int
	DebatesParticipated *big.Int
	DebatesWon          *big.Int
	TotalClaimed        *big.Int
	NetProfit           *big.Int // int256，可为负
	WinRateBps          *big.Int // 万分比
}

// ParticipantRecord 按地址累计的参与者记录，作用域为单次聚合调用
type ParticipantRecord struct {
	Address       common.Address
	ArgumentCount uint64
	TotalStaked   *big.Int
}

// PlatformStats Factory 五个计数器的透传
type PlatformStats struct {
	TotalDebates        uint64
	ActiveDebates       uint64
	ResolvingDebates    uint64
	ResolvedDebates     uint64
	UndeterminedDebates uint64
}

// AggregateStats 给定辩论列表上的全局聚合（单趟扫描得出）
type AggregateStats struct {
	TotalVolume        *big.Int
	TotalBounties      *big.Int
	TotalArguments     uint64
	UniqueParticipants int
}
