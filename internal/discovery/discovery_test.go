package discovery

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-pool-sentinel/internal/domain"
	"solana-pool-sentinel/internal/gatekeeper"
	"solana-pool-sentinel/internal/solana"
	"solana-pool-sentinel/internal/storage/memory"
)

const (
	authority = "5Q544fKrFoe6tsEbD7S8EmxGTJYAKtTVhAW5Q5pge4j1"
	vaultA    = "DQyrAcCrDXQ7NeoqGgDCZwBvWDcYmFCjSb9JtteuvPpz"
	vaultB    = "HLmqeL62xR1QoZ1HKKbXRrdN1p3phKpxRMb2VVopvBBz"
	lpMint    = "8HoQnePLqPj4M7PUDzfw8e3Ymdwgc7NLGnaTUapubyvu"
	tokenMint = "7GCihgDB8fe6KNjn2MYtkzZcRjQy3t9GHdC8uHYmW2hr"
)

func initLogs() []string {
	return []string{
		"Program " + domain.RaydiumAMMV4 + " invoke [1]",
		"Program log: initialize2: InitializeInstruction2 { nonce: 254, open_time: 0, init_pc_amount: 500000000000 }",
		"Program log: accounts: " + authority + " " + vaultA + " " + vaultB,
		"Program 11111111111111111111111111111111 invoke [2]",
		"Program log: rent_exempt_reserve " + vaultA,
		"Program log: mints " + lpMint + " " + tokenMint + " " + domain.NativeMint,
		"Program " + domain.RaydiumAMMV4 + " success",
	}
}

func TestCandidateKeys(t *testing.T) {
	keys := CandidateKeys(initLogs(), domain.RaydiumAMMV4)
	assert.Equal(t, []string{authority, vaultA, vaultB, lpMint, tokenMint, domain.NativeMint}, keys)
}

func TestCandidateKeys_Filter(t *testing.T) {
	nonBase58 := "K" + strings.Repeat("0", 37)
	logs := []string{
		"Program log: " + nonBase58 + " " + authority,
		"Program log: 12345678901234567890123456789012 " + strings.Repeat("a", 31) + " " + strings.Repeat("b", 45),
		"Program log: " + authority + "-x " + domain.RaydiumAMMV4,
	}

	keys := CandidateKeys(logs, domain.RaydiumAMMV4)
	assert.Equal(t, []string{nonBase58, authority}, keys)
}

func TestOffsetExtractor_Extract(t *testing.T) {
	e := NewOffsetExtractor(RaydiumInitialize2V1, domain.RaydiumAMMV4)

	info, ok := e.Extract(initLogs())
	require.True(t, ok)
	assert.Equal(t, &domain.PoolInfo{
		LPMint:        lpMint,
		MintA:         tokenMint,
		MintB:         domain.NativeMint,
		TokenAccountA: vaultA,
		TokenAccountB: vaultB,
	}, info)
}

func TestOffsetExtractor_TooFewKeys(t *testing.T) {
	e := NewOffsetExtractor(RaydiumInitialize2V1, domain.RaydiumAMMV4)

	info, ok := e.Extract([]string{"Program log: initialize2 " + authority + " " + vaultA})
	assert.False(t, ok)
	assert.Nil(t, info)

	_, ok = e.Extract(nil)
	assert.False(t, ok)
}

func TestOffsetExtractor_BadLayoutDoesNotPanic(t *testing.T) {
	bad := RaydiumInitialize2V1
	bad.LP = 40
	e := NewOffsetExtractor(bad, domain.RaydiumAMMV4)

	assert.NotPanics(t, func() {
		_, ok := e.Extract(initLogs())
		assert.False(t, ok)
	})
}

func TestLayoutByVersion(t *testing.T) {
	l, err := LayoutByVersion("")
	require.NoError(t, err)
	assert.Equal(t, RaydiumInitialize2V1, l)

	l, err = LayoutByVersion("raydium-amm-v4/initialize2@1")
	require.NoError(t, err)
	assert.Equal(t, 6, l.MinKeys)

	_, err = LayoutByVersion("orca/v9")
	assert.Error(t, err)
}

func TestLayout_Validate(t *testing.T) {
	require.NoError(t, RaydiumInitialize2V1.Validate())

	dup := RaydiumInitialize2V1
	dup.MintA = dup.MintB
	assert.Error(t, dup.Validate())

	out := RaydiumInitialize2V1
	out.MinKeys = 4
	assert.Error(t, out.Validate())
}

func TestIsPoolInit(t *testing.T) {
	assert.True(t, IsPoolInit(initLogs(), DefaultMarker))
	assert.False(t, IsPoolInit([]string{"Program log: Instruction: SwapBaseIn"}, DefaultMarker))
	assert.False(t, IsPoolInit(nil, DefaultMarker))
}

// fakeSource serves a fixed window of signatures, newest first.
type fakeSource struct {
	window   []string
	logs     map[string][]string
	listErr  error
	logsErr  map[string]error
	fetched  []string
	lastProg string
}

func (f *fakeSource) RecentSignatures(_ context.Context, program string, limit int) ([]string, error) {
	f.lastProg = program
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.window) > limit {
		return f.window[:limit], nil
	}
	return f.window, nil
}

func (f *fakeSource) TransactionLogs(_ context.Context, sig string) ([]string, error) {
	f.fetched = append(f.fetched, sig)
	if err := f.logsErr[sig]; err != nil {
		return nil, err
	}
	return f.logs[sig], nil
}

type recordingHandler struct {
	events []domain.PoolEvent
	pools  []*domain.PoolInfo
}

func (h *recordingHandler) HandlePool(_ context.Context, event domain.PoolEvent, pool *domain.PoolInfo) {
	h.events = append(h.events, event)
	h.pools = append(h.pools, pool)
}

func newTestPoller(src Source, h Handler) *Poller {
	return NewPoller(src, NewOffsetExtractor(RaydiumInitialize2V1, domain.RaydiumAMMV4), h, PollerConfig{}, zerolog.Nop())
}

func TestPoller_RunCycle_CursorAndOrder(t *testing.T) {
	src := &fakeSource{
		window: []string{"sig3", "sig2", "sig1"},
		logs:   map[string][]string{"sig2": initLogs()},
	}
	h := &recordingHandler{}
	p := newTestPoller(src, h)

	require.NoError(t, p.RunCycle(context.Background()))
	assert.Equal(t, domain.RaydiumAMMV4, src.lastProg)
	assert.Equal(t, []string{"sig1", "sig2", "sig3"}, src.fetched, "processed oldest first")
	assert.Equal(t, "sig3", p.Cursor())
	require.Len(t, h.pools, 1)
	assert.Equal(t, "sig2", h.events[0].Signature)
	assert.Equal(t, lpMint, h.pools[0].LPMint)

	// Next window overlaps: only signatures after the cursor are processed.
	src.window = []string{"sig5", "sig4", "sig3", "sig2"}
	src.fetched = nil
	require.NoError(t, p.RunCycle(context.Background()))
	assert.Equal(t, []string{"sig4", "sig5"}, src.fetched)
	assert.Equal(t, "sig5", p.Cursor())

	// Nothing new.
	src.fetched = nil
	require.NoError(t, p.RunCycle(context.Background()))
	assert.Empty(t, src.fetched)
}

func TestPoller_RunCycle_CursorOutsideWindow(t *testing.T) {
	src := &fakeSource{window: []string{"a2", "a1"}}
	p := newTestPoller(src, &recordingHandler{})
	require.NoError(t, p.RunCycle(context.Background()))

	src.window = []string{"b3", "b2", "b1"}
	src.fetched = nil
	require.NoError(t, p.RunCycle(context.Background()))
	assert.Equal(t, []string{"b1", "b2", "b3"}, src.fetched)
}

func TestPoller_RunCycle_ListErrorKeepsCursor(t *testing.T) {
	src := &fakeSource{window: []string{"sig1"}}
	p := newTestPoller(src, &recordingHandler{})
	require.NoError(t, p.RunCycle(context.Background()))

	src.listErr = errors.New("429 too many requests")
	assert.Error(t, p.RunCycle(context.Background()))
	assert.Equal(t, "sig1", p.Cursor())
}

func TestPoller_RunCycle_SkipsFailedFetches(t *testing.T) {
	src := &fakeSource{
		window:  []string{"sig2", "sig1"},
		logs:    map[string][]string{"sig2": initLogs()},
		logsErr: map[string]error{"sig1": errors.New("timeout")},
	}
	h := &recordingHandler{}
	p := newTestPoller(src, h)

	require.NoError(t, p.RunCycle(context.Background()))
	assert.Len(t, h.pools, 1)
	assert.Equal(t, "sig2", p.Cursor(), "cursor advances past failed fetches")
}

func TestPoller_RunCycle_MarkerWithoutKeys(t *testing.T) {
	src := &fakeSource{
		window: []string{"sig1"},
		logs:   map[string][]string{"sig1": {"Program log: initialize2"}},
	}
	h := &recordingHandler{}
	require.NoError(t, newTestPoller(src, h).RunCycle(context.Background()))
	assert.Empty(t, h.pools)
}

type fakeRPC struct {
	sigs []solana.SignatureInfo
	tx   *solana.Transaction
	opts *solana.SignaturesOpts
}

func (f *fakeRPC) GetTransaction(context.Context, string) (*solana.Transaction, error) {
	return f.tx, nil
}

func (f *fakeRPC) GetSignaturesForAddress(_ context.Context, _ string, opts *solana.SignaturesOpts) ([]solana.SignatureInfo, error) {
	f.opts = opts
	return f.sigs, nil
}

func (f *fakeRPC) GetTokenAccountBalance(context.Context, string) (*solana.TokenBalance, error) {
	return nil, nil
}

func TestRPCSource(t *testing.T) {
	rpc := &fakeRPC{
		sigs: []solana.SignatureInfo{{Signature: "s2"}, {Signature: "s1", Err: map[string]interface{}{"InstructionError": 1}}},
	}
	src := NewRPCSource(rpc)

	sigs, err := src.RecentSignatures(context.Background(), domain.RaydiumAMMV4, 25)
	require.NoError(t, err)
	assert.Equal(t, []string{"s2", "s1"}, sigs)
	assert.Equal(t, 25, rpc.opts.Limit)

	logs, err := src.TransactionLogs(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, logs)

	rpc.tx = &solana.Transaction{Meta: &solana.TransactionMeta{LogMessages: []string{"a"}}}
	logs, err = src.TransactionLogs(context.Background(), "s2")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, logs)
}

type stubGate struct{ res gatekeeper.Result }

func (g stubGate) Evaluate(context.Context, *domain.PoolInfo) gatekeeper.Result { return g.res }

type recordingNotifier struct{ msgs []string }

func (n *recordingNotifier) Send(_ context.Context, text string) { n.msgs = append(n.msgs, text) }

type failingHot struct{ *memory.HotWatchlist }

func (failingHot) AddHot(context.Context, string) error { return errors.New("redis down") }

func testPool() *domain.PoolInfo {
	return &domain.PoolInfo{LPMint: lpMint, MintA: tokenMint, MintB: domain.NativeMint, TokenAccountA: vaultA, TokenAccountB: vaultB}
}

func TestPipeline_Pass(t *testing.T) {
	hot, cold := memory.NewHotWatchlist(), memory.NewColdWatchlist()
	n := &recordingNotifier{}
	p := NewPipeline(stubGate{res: gatekeeper.Result{Passed: true}}, hot, cold, n, "", zerolog.Nop())
	p.now = func() time.Time { return time.UnixMilli(1700000000000) }

	p.HandlePool(context.Background(), domain.PoolEvent{Signature: "sig"}, testPool())

	members, err := hot.ListHot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{tokenMint}, members)

	entry, err := cold.GetCold(context.Background(), tokenMint)
	require.NoError(t, err)
	assert.Equal(t, domain.ColdStatusWatching, entry.Status)
	assert.Equal(t, lpMint, entry.LPMint)
	assert.Equal(t, int64(1700000000000), entry.DiscoveredAt)

	require.Len(t, n.msgs, 1)
	assert.Contains(t, n.msgs[0], "New candidate")
	assert.Contains(t, n.msgs[0], tokenMint)
}

func TestPipeline_Reject(t *testing.T) {
	hot, cold := memory.NewHotWatchlist(), memory.NewColdWatchlist()
	n := &recordingNotifier{}
	gate := stubGate{res: gatekeeper.Result{FailedRule: gatekeeper.RuleLiquidity, Reason: "liquidity $10.00 below $15000.00"}}

	NewPipeline(gate, hot, cold, n, "", zerolog.Nop()).HandlePool(context.Background(), domain.PoolEvent{}, testPool())

	members, _ := hot.ListHot(context.Background())
	assert.Empty(t, members)
	all, _ := cold.ListCold(context.Background())
	assert.Empty(t, all)
	require.Len(t, n.msgs, 1)
	assert.Contains(t, n.msgs[0], "liquidity $10.00 below")
}

func TestPipeline_HotWriteFailureSkipsNotification(t *testing.T) {
	cold := memory.NewColdWatchlist()
	n := &recordingNotifier{}
	p := NewPipeline(stubGate{res: gatekeeper.Result{Passed: true}}, failingHot{memory.NewHotWatchlist()}, cold, n, "", zerolog.Nop())

	p.HandlePool(context.Background(), domain.PoolEvent{}, testPool())
	assert.Empty(t, n.msgs)
	all, _ := cold.ListCold(context.Background())
	assert.Empty(t, all)
}

type fakeWS struct {
	ch     chan solana.LogNotification
	filter solana.LogsFilter
}

func (f *fakeWS) SubscribeLogs(_ context.Context, filter solana.LogsFilter) (<-chan solana.LogNotification, error) {
	f.filter = filter
	return f.ch, nil
}

func TestSubscriber_Run(t *testing.T) {
	ws := &fakeWS{ch: make(chan solana.LogNotification, 4)}
	h := &recordingHandler{}
	s := NewSubscriber(ws, NewOffsetExtractor(RaydiumInitialize2V1, domain.RaydiumAMMV4), h, "", "", zerolog.Nop())

	ws.ch <- solana.LogNotification{Signature: "failed", Logs: initLogs(), Err: "InstructionError"}
	ws.ch <- solana.LogNotification{Signature: "swap", Logs: []string{"Program log: ray_log: " + strings.Repeat("A", 20)}}
	ws.ch <- solana.LogNotification{Signature: "init", Slot: 9, Logs: initLogs()}
	close(ws.ch)

	err := s.Run(context.Background())
	assert.ErrorIs(t, err, ErrSubscriptionClosed)
	assert.Equal(t, []string{domain.RaydiumAMMV4}, ws.filter.Mentions)
	require.Len(t, h.events, 1)
	assert.Equal(t, "init", h.events[0].Signature)
	assert.Equal(t, tokenMint, h.pools[0].MintA)
}

func TestSubscriber_StopsOnCancel(t *testing.T) {
	ws := &fakeWS{ch: make(chan solana.LogNotification)}
	s := NewSubscriber(ws, NewOffsetExtractor(RaydiumInitialize2V1, domain.RaydiumAMMV4), &recordingHandler{}, "", "", zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Run(ctx), context.Canceled)
}
