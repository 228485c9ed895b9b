package service

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"testing"

	"DebateSync/internal/chain"
	"DebateSync/internal/model"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubSnapshotRepo 捕获 SaveBatch 入参
type stubSnapshotRepo struct {
	platform *model.PlatformSnapshot
	debates  []*model.DebateSnapshot
	agents   []*model.AgentStatSnapshot
	saves    int
	err      error
}

func (r *stubSnapshotRepo) SaveBatch(_ context.Context, platform *model.PlatformSnapshot, debates []*model.DebateSnapshot, agents []*model.AgentStatSnapshot) error {
	if r.err != nil {
		return r.err
	}
	r.saves++
	r.platform = platform
	r.debates = debates
	r.agents = agents
	return nil
}

func (r *stubSnapshotRepo) LatestBatchID(context.Context) (string, error) {
	if r.platform == nil {
		return "", gorm.ErrRecordNotFound
	}
	return r.platform.BatchID, nil
}

func (r *stubSnapshotRepo) GetPlatformSnapshot(context.Context, string) (*model.PlatformSnapshot, error) {
	return r.platform, nil
}

func (r *stubSnapshotRepo) ListDebateSnapshots(context.Context, string, int, int) ([]*model.DebateSnapshot, int64, error) {
	return r.debates, int64(len(r.debates)), nil
}

func (r *stubSnapshotRepo) ListAgentSnapshots(context.Context, string, int, int) ([]*model.AgentStatSnapshot, int64, error) {
	return r.agents, int64(len(r.agents)), nil
}

func snapshotStubReader() *stubReader {
	d1, d2 := debateAddr(1), debateAddr(2)
	alice := common.BytesToAddress([]byte{0xaa})
	bob := common.BytesToAddress([]byte{0xbb})
	return &stubReader{
		all: []common.Address{d1, d2},
		stats: &chain.PlatformStats{
			TotalDebates:  2,
			ActiveDebates: 1,
		},
		agg: &chain.AggregateStats{
			TotalVolume:        eth(10),
			TotalBounties:      eth(2),
			TotalArguments:     3,
			UniqueParticipants: 2,
		},
		summaries: map[common.Address]chain.DebateSummary{
			d1: sampleSummary(d1, eth(3), eth(1)),
			d2: sampleSummary(d2, eth(4), eth(2)),
		},
		participants: []chain.ParticipantRecord{
			{Address: alice, ArgumentCount: 1, TotalStaked: eth(1)},
			{Address: bob, ArgumentCount: 2, TotalStaked: eth(5)},
		},
		agents: map[common.Address]chain.AgentStats{
			alice: {Address: alice, TotalWinnings: eth(1), TotalBets: eth(1), TotalClaimed: eth(1), NetProfit: big.NewInt(0), DebatesParticipated: big.NewInt(1), DebatesWon: big.NewInt(0), WinRateBps: big.NewInt(0)},
			bob:   {Address: bob, TotalWinnings: eth(6), TotalBets: eth(5), TotalClaimed: eth(6), NetProfit: eth(1), DebatesParticipated: big.NewInt(2), DebatesWon: big.NewInt(2), WinRateBps: big.NewInt(10000)},
		},
	}
}

func TestSnapshotRun_PersistsBatch(t *testing.T) {
	repo := &stubSnapshotRepo{}
	svc := NewSnapshotService(snapshotStubReader(), repo, testLogger(), 0, 1)

	batchID, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, repo.saves)

	// 批次号为合法 UUID，三类行共用同一批次
	_, err = uuid.Parse(batchID)
	require.NoError(t, err)
	assert.Equal(t, batchID, repo.platform.BatchID)
	require.Len(t, repo.debates, 2)
	assert.Equal(t, batchID, repo.debates[0].BatchID)
	require.Len(t, repo.agents, 2)
	assert.Equal(t, batchID, repo.agents[0].BatchID)

	assert.Equal(t, int64(2), repo.platform.TotalDebates)
	assert.Equal(t, int64(3), repo.platform.TotalArguments)
	assert.Equal(t, int64(2), repo.platform.UniqueParticipants)
	assert.Equal(t, "10", repo.platform.TotalVolume.String())

	assert.Equal(t, "active", repo.debates[0].Status)
	assert.Equal(t, "3", repo.debates[0].TotalSideA.String())
	assert.Equal(t, int64(2), repo.debates[0].ArgumentCountA)

	// 头部参与者按质押总额降序截断到 top_participants 条
	var top []ParticipantRow
	require.NoError(t, json.Unmarshal(repo.platform.TopParticipants, &top))
	require.Len(t, top, 1)
	assert.Equal(t, common.BytesToAddress([]byte{0xbb}).Hex(), top[0].Address)
	assert.Equal(t, "5", top[0].TotalStaked)
}

func TestSnapshotRun_MaxDebatesTrims(t *testing.T) {
	repo := &stubSnapshotRepo{}
	svc := NewSnapshotService(snapshotStubReader(), repo, testLogger(), 1, 5)

	_, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, repo.debates, 1)
	assert.Equal(t, debateAddr(1).Hex(), repo.debates[0].Address)
}

func TestSnapshotRun_ReaderFailureAborts(t *testing.T) {
	stub := snapshotStubReader()
	stub.err = errors.New("execution reverted")
	repo := &stubSnapshotRepo{}
	svc := NewSnapshotService(stub, repo, testLogger(), 0, 5)

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Zero(t, repo.saves)
}
