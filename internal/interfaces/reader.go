package interfaces

import (
	"context"

	"DebateSync/internal/chain"

	"github.com/ethereum/go-ethereum/common"
)

// DebateReader 批量只读聚合接口，由 chain.BatchReader 实现。
// service 层依赖此接口而非具体实现，便于测试时注入假数据源。
type DebateReader interface {
	// AllDebates 全部辩论地址列表
	AllDebates(ctx context.Context) ([]common.Address, error)
	// ActiveDebates 进行中辩论地址列表
	ActiveDebates(ctx context.Context) ([]common.Address, error)
	// PlatformStats Factory 五个状态计数器
	PlatformStats(ctx context.Context) (*chain.PlatformStats, error)
	// DebateSummaries 按输入顺序返回每个辩论的汇总行
	DebateSummaries(ctx context.Context, debates []common.Address) ([]chain.DebateSummary, error)
	// AgentStatsBatch 按输入顺序透传 Factory 用户战绩（不去重）
	AgentStatsBatch(ctx context.Context, agents []common.Address) ([]chain.AgentStats, error)
	// ArgumentAuthors 首次出现序去重作者，凑满 maxResults 即终止扫描
	ArgumentAuthors(ctx context.Context, debates []common.Address, maxResults int) ([]common.Address, error)
	// ParticipantDetails 按地址累计的参与者名册（满员后只挡新地址）
	ParticipantDetails(ctx context.Context, debates []common.Address, maxResults int) ([]chain.ParticipantRecord, error)
	// DebateCreators 首次出现序去重创建者
	DebateCreators(ctx context.Context, debates []common.Address) ([]common.Address, error)
	// AggregateStats 单趟扫描的全局聚合
	AggregateStats(ctx context.Context, debates []common.Address) (*chain.AggregateStats, error)
}
