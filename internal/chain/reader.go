package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Caller 只读调用后端。*ethclient.Client 天然满足；测试里可注入假链。
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// BatchReader 批量只读聚合器：绑定一个 Factory 地址，对 Factory/Debate 合约
// 发起 eth_call 并做去重聚合。自身无状态、无缓存，每次调用都基于链上当前状态
// 重新计算；任一底层读失败则整个操作失败，不返回部分结果。
//
// 列表类操作的输出顺序统一为首次出现序：辩论按输入顺序、A 侧先于 B 侧、
// 论点按合约存储顺序。本层不做任何排序与格式化。
type BatchReader struct {
	caller     Caller
	factory    common.Address
	factoryABI abi.ABI
	debateABI  abi.ABI
}

// NewBatchReader 创建 BatchReader。factory 为 Factory 合约地址，部署后不变。
func NewBatchReader(caller Caller, factory common.Address) (*BatchReader, error) {
	fABI, err := abi.JSON(strings.NewReader(factoryABI))
	if err != nil {
		return nil, fmt.Errorf("parse factory abi: %w", err)
	}
	dABI, err := abi.JSON(strings.NewReader(debateABI))
	if err != nil {
		return nil, fmt.Errorf("parse debate abi: %w", err)
	}
	return &BatchReader{
		caller:     caller,
		factory:    factory,
		factoryABI: fABI,
		debateABI:  dABI,
	}, nil
}

// DialBatchReader 通过 RPC 地址建立长连接并创建 BatchReader
func DialBatchReader(ctx context.Context, rpcURL string, factoryAddr string) (*BatchReader, error) {
	if rpcURL == "" || factoryAddr == "" {
		return nil, fmt.Errorf("rpc_url, factory_address 必填")
	}
	if !common.IsHexAddress(factoryAddr) {
		return nil, fmt.Errorf("factory_address 非法: %s", factoryAddr)
	}
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	return NewBatchReader(client, common.HexToAddress(factoryAddr))
}

// Factory 返回构造时绑定的 Factory 地址
func (r *BatchReader) Factory() common.Address {
	return r.factory
}

// call 打包并发起一次 eth_call，返回原始返回数据
func (r *BatchReader) call(ctx context.Context, to common.Address, contract *abi.ABI, method string, args ...interface{}) ([]byte, error) {
	data, err := contract.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &to, Data: data}
	res, err := r.caller.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s on %s: %w", method, to.Hex(), err)
	}
	return res, nil
}

// factoryCount 读取 Factory 上的单个 uint256 计数器
func (r *BatchReader) factoryCount(ctx context.Context, method string) (uint64, error) {
	res, err := r.call(ctx, r.factory, &r.factoryABI, method)
	if err != nil {
		return 0, err
	}
	out, err := r.factoryABI.Unpack(method, res)
	if err != nil {
		return 0, fmt.Errorf("unpack %s: %w", method, err)
	}
	return out[0].(*big.Int).Uint64(), nil
}

// factoryAddressList 读取 Factory 上的 address[] 列表
func (r *BatchReader) factoryAddressList(ctx context.Context, method string) ([]common.Address, error) {
	res, err := r.call(ctx, r.factory, &r.factoryABI, method)
	if err != nil {
		return nil, err
	}
	out, err := r.factoryABI.Unpack(method, res)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return out[0].([]common.Address), nil
}

// debateInfo 读取并解码 Debate.info()
func (r *BatchReader) debateInfo(ctx context.Context, debate common.Address) (*DebateInfo, error) {
	res, err := r.call(ctx, debate, &r.debateABI, "info")
	if err != nil {
		return nil, err
	}
	var info DebateInfo
	if err := r.debateABI.UnpackIntoInterface(&info, "info", res); err != nil {
		return nil, fmt.Errorf("unpack info on %s: %w", debate.Hex(), err)
	}
	return &info, nil
}

// debateStatus 读取 Debate.status()，越界枚举视为上游数据异常
func (r *BatchReader) debateStatus(ctx context.Context, debate common.Address) (DebateStatus, error) {
	res, err := r.call(ctx, debate, &r.debateABI, "status")
	if err != nil {
		return 0, err
	}
	out, err := r.debateABI.Unpack("status", res)
	if err != nil {
		return 0, fmt.Errorf("unpack status on %s: %w", debate.Hex(), err)
	}
	st := DebateStatus(out[0].(uint8))
	if !st.Valid() {
		return 0, fmt.Errorf("status %d on %s 越界", uint8(st), debate.Hex())
	}
	return st, nil
}

// debateArguments 读取一侧论点列表，method 取 argumentsSideA / argumentsSideB
func (r *BatchReader) debateArguments(ctx context.Context, debate common.Address, method string) ([]DebateArgument, error) {
	res, err := r.call(ctx, debate, &r.debateABI, method)
	if err != nil {
		return nil, err
	}
	out, err := r.debateABI.Unpack(method, res)
	if err != nil {
		return nil, fmt.Errorf("unpack %s on %s: %w", method, debate.Hex(), err)
	}
	return *abi.ConvertType(out[0], new([]DebateArgument)).(*[]DebateArgument), nil
}

// argumentMethods A 侧先于 B 侧，这是全部聚合操作共用的扫描顺序
var argumentMethods = [2]string{"argumentsSideA", "argumentsSideB"}

// AllDebates 透传 Factory.allDebates()
func (r *BatchReader) AllDebates(ctx context.Context) ([]common.Address, error) {
	return r.factoryAddressList(ctx, "allDebates")
}

// ActiveDebates 透传 Factory.activeDebates()
func (r *BatchReader) ActiveDebates(ctx context.Context) ([]common.Address, error) {
	return r.factoryAddressList(ctx, "activeDebates")
}

// PlatformStats 透传 Factory 的五个状态计数器，单次往返给前端
func (r *BatchReader) PlatformStats(ctx context.Context) (*PlatformStats, error) {
	var stats PlatformStats
	reads := []struct {
		method string
		dst    *uint64
	}{
		{"debateCount", &stats.TotalDebates},
		{"activeCount", &stats.ActiveDebates},
		{"resolvingCount", &stats.ResolvingDebates},
		{"resolvedCount", &stats.ResolvedDebates},
		{"undeterminedCount", &stats.UndeterminedDebates},
	}
	for _, rd := range reads {
		n, err := r.factoryCount(ctx, rd.method)
		if err != nil {
			return nil, err
		}
		*rd.dst = n
	}
	return &stats, nil
}

// DebateSummaries 为每个输入地址组装一行汇总，输出长度与顺序等于输入。
// 每侧合计为 locked+unlocked 之和；论点计数需读全量论点列表，成本与论点总数线性。
func (r *BatchReader) DebateSummaries(ctx context.Context, debates []common.Address) ([]DebateSummary, error) {
	out := make([]DebateSummary, 0, len(debates))
	for _, addr := range debates {
		info, err := r.debateInfo(ctx, addr)
		if err != nil {
			return nil, err
		}
		st, err := r.debateStatus(ctx, addr)
		if err != nil {
			return nil, err
		}
		argsA, err := r.debateArguments(ctx, addr, "argumentsSideA")
		if err != nil {
			return nil, err
		}
		argsB, err := r.debateArguments(ctx, addr, "argumentsSideB")
		if err != nil {
			return nil, err
		}
		out = append(out, DebateSummary{
			Address:        addr,
			Creator:        info.Creator,
			EndDate:        info.EndDate,
			Status:         st,
			TotalSideA:     new(big.Int).Add(info.LockedA, info.UnlockedA),
			TotalSideB:     new(big.Int).Add(info.LockedB, info.UnlockedB),
			TotalBounty:    info.Bounty,
			ArgumentCountA: uint64(len(argsA)),
			ArgumentCountB: uint64(len(argsB)),
		})
	}
	return out, nil
}

// AgentStatsBatch 逐地址透传 Factory.userStats()。输出顺序等于输入顺序；
// 重复地址产生重复行（是否去重由调用方决定，与参与者/创建者类操作不同）。
func (r *BatchReader) AgentStatsBatch(ctx context.Context, agents []common.Address) ([]AgentStats, error) {
	out := make([]AgentStats, 0, len(agents))
	for _, addr := range agents {
		res, err := r.call(ctx, r.factory, &r.factoryABI, "userStats", addr)
		if err != nil {
			return nil, err
		}
		var ledger struct {
			TotalWinnings       *big.Int
			TotalBets           *big.Int
			DebatesParticipated *big.Int
			DebatesWon          *big.Int
			TotalClaimed        *big.Int
			NetProfit           *big.Int
			WinRateBps          *big.Int
		}
		if err := r.factoryABI.UnpackIntoInterface(&ledger, "userStats", res); err != nil {
			return nil, fmt.Errorf("unpack userStats for %s: %w", addr.Hex(), err)
		}
		out = append(out, AgentStats{
			Address:             addr,
			TotalWinnings:       ledger.TotalWinnings,
			TotalBets:           ledger.TotalBets,
			DebatesParticipated: ledger.DebatesParticipated,
			DebatesWon:          ledger.DebatesWon,
			TotalClaimed:        ledger.TotalClaimed,
			NetProfit:           ledger.NetProfit,
			WinRateBps:          ledger.WinRateBps,
		})
	}
	return out, nil
}

// ArgumentAuthors 按扫描顺序收集首次出现的作者，凑满 maxResults 个去重作者
// 即刻终止——后续的论点列表（包括当前辩论的 B 侧）不再发起读取，这是成本
// 控制而非扫完后截断。maxResults<=0 表示不设上限。
func (r *BatchReader) ArgumentAuthors(ctx context.Context, debates []common.Address, maxResults int) ([]common.Address, error) {
	capped := maxResults > 0
	seen := newAddressSet(maxResults)
scan:
	for _, addr := range debates {
		for _, method := range argumentMethods {
			if capped && seen.len() >= maxResults {
				break scan
			}
			args, err := r.debateArguments(ctx, addr, method)
			if err != nil {
				return nil, err
			}
			for _, a := range args {
				seen.add(a.Author)
				if capped && seen.len() >= maxResults {
					break scan
				}
			}
		}
	}
	return seen.addresses(), nil
}

// ParticipantDetails 折叠全部论点得到按地址累计的参与者名册。与 ArgumentAuthors
// 不同，这里始终扫完整个输入：名额满了只挡新地址入册，已入册地址继续累计，
// 因此名册"满员"后各行的计数与金额仍会增长。一个地址要么从首次出现起被完整
// 跟踪，要么完全不出现。maxResults<=0 表示不设上限。
func (r *BatchReader) ParticipantDetails(ctx context.Context, debates []common.Address, maxResults int) ([]ParticipantRecord, error) {
	capped := maxResults > 0
	roster := newAddressSet(maxResults)
	records := make(map[common.Address]*ParticipantRecord, maxResults)
	for _, addr := range debates {
		for _, method := range argumentMethods {
			args, err := r.debateArguments(ctx, addr, method)
			if err != nil {
				return nil, err
			}
			for _, a := range args {
				rec, tracked := records[a.Author]
				if !tracked {
					if capped && roster.len() >= maxResults {
						continue
					}
					roster.add(a.Author)
					rec = &ParticipantRecord{Address: a.Author, TotalStaked: new(big.Int)}
					records[a.Author] = rec
				}
				rec.ArgumentCount++
				rec.TotalStaked = new(big.Int).Add(rec.TotalStaked, a.Amount)
			}
		}
	}
	out := make([]ParticipantRecord, 0, roster.len())
	for _, a := range roster.addresses() {
		out = append(out, *records[a])
	}
	return out, nil
}

// DebateCreators 每个辩论读一次 info()，创建者按首次出现序去重。
// 创建者数不会超过辩论数，因此无需单独的上限参数。
func (r *BatchReader) DebateCreators(ctx context.Context, debates []common.Address) ([]common.Address, error) {
	seen := newAddressSet(len(debates))
	for _, addr := range debates {
		info, err := r.debateInfo(ctx, addr)
		if err != nil {
			return nil, err
		}
		seen.add(info.Creator)
	}
	return seen.addresses(), nil
}

// AggregateStats 单趟扫描同时算出四个总量。作者去重集合动态扩容，
// 不存在链上实现那种定容缓冲的溢出截断。
func (r *BatchReader) AggregateStats(ctx context.Context, debates []common.Address) (*AggregateStats, error) {
	agg := &AggregateStats{
		TotalVolume:   new(big.Int),
		TotalBounties: new(big.Int),
	}
	seen := newAddressSet(0)
	for _, addr := range debates {
		info, err := r.debateInfo(ctx, addr)
		if err != nil {
			return nil, err
		}
		agg.TotalVolume.Add(agg.TotalVolume, info.LockedA)
		agg.TotalVolume.Add(agg.TotalVolume, info.UnlockedA)
		agg.TotalVolume.Add(agg.TotalVolume, info.LockedB)
		agg.TotalVolume.Add(agg.TotalVolume, info.UnlockedB)
		agg.TotalBounties.Add(agg.TotalBounties, info.Bounty)
		for _, method := range argumentMethods {
			args, err := r.debateArguments(ctx, addr, method)
			if err != nil {
				return nil, err
			}
			agg.TotalArguments += uint64(len(args))
			for _, a := range args {
				seen.add(a.Author)
			}
		}
	}
	agg.UniqueParticipants = seen.len()
	return agg, nil
}
