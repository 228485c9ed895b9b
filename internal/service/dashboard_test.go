package service

import (
	"context"
	"math/big"
	"testing"

	"DebateSync/internal/chain"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubReader 固定数据源，实现 interfaces.DebateReader
type stubReader struct {
	stats        *chain.PlatformStats
	agg          *chain.AggregateStats
	all          []common.Address
	active       []common.Address
	summaries    map[common.Address]chain.DebateSummary
	agents       map[common.Address]chain.AgentStats
	participants []chain.ParticipantRecord
	creators     []common.Address
	err          error

	summariesRequested []common.Address
}

func (s *stubReader) AllDebates(context.Context) ([]common.Address, error) {
	return s.all, s.err
}

func (s *stubReader) ActiveDebates(context.Context) ([]common.Address, error) {
	return s.active, s.err
}

func (s *stubReader) PlatformStats(context.Context) (*chain.PlatformStats, error) {
	return s.stats, s.err
}

func (s *stubReader) DebateSummaries(_ context.Context, debates []common.Address) ([]chain.DebateSummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.summariesRequested = append(s.summariesRequested, debates...)
	out := make([]chain.DebateSummary, 0, len(debates))
	for _, d := range debates {
		out = append(out, s.summaries[d])
	}
	return out, nil
}

func (s *stubReader) AgentStatsBatch(_ context.Context, agents []common.Address) ([]chain.AgentStats, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]chain.AgentStats, 0, len(agents))
	for _, a := range agents {
		out = append(out, s.agents[a])
	}
	return out, nil
}

func (s *stubReader) ArgumentAuthors(context.Context, []common.Address, int) ([]common.Address, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]common.Address, 0, len(s.participants))
	for _, p := range s.participants {
		out = append(out, p.Address)
	}
	return out, nil
}

func (s *stubReader) ParticipantDetails(_ context.Context, _ []common.Address, maxResults int) ([]chain.ParticipantRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	if maxResults > 0 && len(s.participants) > maxResults {
		return s.participants[:maxResults], nil
	}
	return s.participants, nil
}

func (s *stubReader) DebateCreators(context.Context, []common.Address) ([]common.Address, error) {
	return s.creators, s.err
}

func (s *stubReader) AggregateStats(context.Context, []common.Address) (*chain.AggregateStats, error) {
	return s.agg, s.err
}

// eth 18 位定点：n 个整币
func eth(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return l
}

func debateAddr(n byte) common.Address {
	return common.BytesToAddress([]byte{0xd0, n})
}

func sampleSummary(addr common.Address, sideA, sideB *big.Int) chain.DebateSummary {
	return chain.DebateSummary{
		Address:        addr,
		Creator:        common.BytesToAddress([]byte{0xcc}),
		EndDate:        big.NewInt(1700086400),
		Status:         chain.StatusActive,
		TotalSideA:     sideA,
		TotalSideB:     sideB,
		TotalBounty:    eth(1),
		ArgumentCountA: 2,
		ArgumentCountB: 1,
	}
}

func TestPlatformOverview_MergesAndFormats(t *testing.T) {
	half, _ := new(big.Int).SetString("1500000000000000000", 10) // 1.5
	stub := &stubReader{
		stats: &chain.PlatformStats{
			TotalDebates:  4,
			ActiveDebates: 2,
		},
		agg: &chain.AggregateStats{
			TotalVolume:        half,
			TotalBounties:      eth(3),
			TotalArguments:     9,
			UniqueParticipants: 5,
		},
		all: []common.Address{debateAddr(1)},
	}
	svc := NewDashboardService(stub, testLogger())

	out, err := svc.PlatformOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(4), out.TotalDebates)
	assert.Equal(t, "1.5", out.TotalVolume)
	assert.Equal(t, "3", out.TotalBounties)
	assert.Equal(t, uint64(9), out.TotalArguments)
	assert.Equal(t, 5, out.UniqueParticipants)
}

func TestListDebates_PaginationSlicing(t *testing.T) {
	all := []common.Address{debateAddr(1), debateAddr(2), debateAddr(3), debateAddr(4), debateAddr(5)}
	stub := &stubReader{all: all, summaries: map[common.Address]chain.DebateSummary{}}
	for _, a := range all {
		stub.summaries[a] = sampleSummary(a, eth(3), eth(1))
	}
	svc := NewDashboardService(stub, testLogger())

	out, err := svc.ListDebates(context.Background(), "all", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, out.Total)
	require.Len(t, out.Items, 2)
	assert.Equal(t, all[2].Hex(), out.Items[0].Address)
	assert.Equal(t, all[3].Hex(), out.Items[1].Address)
	// 分页只是对地址数组的切片：未落页的辩论不发起读取
	assert.Equal(t, []common.Address{all[2], all[3]}, stub.summariesRequested)

	// 越界页：空结果，总数不变
	out, err = svc.ListDebates(context.Background(), "all", 9, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, out.Total)
	assert.Empty(t, out.Items)
}

func TestListDebates_UnknownScope(t *testing.T) {
	svc := NewDashboardService(&stubReader{}, testLogger())
	_, err := svc.ListDebates(context.Background(), "finished", 1, 10)
	require.Error(t, err)
}

func TestDebateRow_PoolSharePct(t *testing.T) {
	addr := debateAddr(1)
	stub := &stubReader{
		all: []common.Address{addr},
		summaries: map[common.Address]chain.DebateSummary{
			addr: sampleSummary(addr, eth(3), eth(1)),
		},
	}
	svc := NewDashboardService(stub, testLogger())

	out, err := svc.ListDebates(context.Background(), "all", 1, 10)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.InDelta(t, 75.0, out.Items[0].SideASharePct, 0.001)
	assert.InDelta(t, 25.0, out.Items[0].SideBSharePct, 0.001)
	assert.Equal(t, "3", out.Items[0].TotalSideA)
	assert.Equal(t, int64(1700086400000), out.Items[0].EndTime)
}

func TestPoolSharePct_ZeroPools(t *testing.T) {
	a, b := poolSharePct(big.NewInt(0), big.NewInt(0))
	assert.Zero(t, a)
	assert.Zero(t, b)
}

func TestDebateDetail_InvalidAddress(t *testing.T) {
	svc := NewDashboardService(&stubReader{}, testLogger())
	_, err := svc.DebateDetail(context.Background(), "not-an-address")
	require.Error(t, err)
}

func TestAgents_WinRateAndAmounts(t *testing.T) {
	a := common.BytesToAddress([]byte{0xaa})
	stub := &stubReader{
		agents: map[common.Address]chain.AgentStats{
			a: {
				Address:             a,
				TotalWinnings:       eth(9),
				TotalBets:           eth(6),
				TotalClaimed:        eth(8),
				NetProfit:           new(big.Int).Neg(eth(2)),
				DebatesParticipated: big.NewInt(8),
				DebatesWon:          big.NewInt(5),
				WinRateBps:          big.NewInt(6250),
			},
		},
	}
	svc := NewDashboardService(stub, testLogger())

	rows, err := svc.Agents(context.Background(), []string{a.Hex()})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.InDelta(t, 62.5, rows[0].WinRatePct, 0.001)
	assert.Equal(t, "-2", rows[0].NetProfit)
	assert.Equal(t, uint64(5), rows[0].DebatesWon)

	_, err = svc.Agents(context.Background(), []string{"0xZZ"})
	require.Error(t, err)

	rows, err = svc.Agents(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0", formatAmount(nil))
	assert.Equal(t, "0", formatAmount(big.NewInt(0)))
	assert.Equal(t, "0.000000000000000001", formatAmount(big.NewInt(1)))
	assert.Equal(t, "1", formatAmount(eth(1)))
}
