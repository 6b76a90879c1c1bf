package cached

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/preston-bernstein/nba-replay-service/internal/fixtures"
	"github.com/preston-bernstein/nba-replay-service/internal/providers"
	"github.com/preston-bernstein/nba-replay-service/internal/teststubs"
	"github.com/preston-bernstein/nba-replay-service/internal/testutil"
)

type memoryDocs struct {
	mu      sync.Mutex
	docs    map[string][]byte
	loadErr error
	saveErr error
	saves   int
}

func (m *memoryDocs) LoadPlayByPlay(ctx context.Context, gameID string) ([]byte, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	raw, ok := m.docs[gameID]
	if !ok {
		return nil, fixtures.ErrNotFound
	}
	return raw, nil
}

func (m *memoryDocs) SavePlayByPlay(ctx context.Context, gameID string, raw []byte) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.docs == nil {
		m.docs = map[string][]byte{}
	}
	m.docs[gameID] = raw
	return nil
}

func TestFetchPrefersLocalDocument(t *testing.T) {
	docs := &memoryDocs{docs: map[string][]byte{
		"g1": testutil.PlayByPlayJSON(testutil.ThreeActionLog("g1", testutil.T0)),
	}}
	upstream := &teststubs.StubUpstream{}

	game, err := New(docs, upstream, nil).FetchPlayByPlay(context.Background(), "g1")
	if err != nil {
		t.Fatalf("expected local document, got %v", err)
	}
	if len(game.Actions) != 3 {
		t.Fatalf("expected 3 actions, got %d", len(game.Actions))
	}
	if upstream.Calls.Load() != 0 {
		t.Fatalf("expected no upstream call")
	}
}

func TestFetchFallsBackToUpstreamAndPersists(t *testing.T) {
	docs := &memoryDocs{}
	raw := testutil.PlayByPlayJSON(testutil.ThreeActionLog("g1", testutil.T0))
	upstream := &teststubs.StubUpstream{PlayByPlay: map[string][]byte{"g1": raw}}
	p := New(docs, upstream, nil)

	if _, err := p.FetchPlayByPlay(context.Background(), "g1"); err != nil {
		t.Fatalf("expected upstream document, got %v", err)
	}
	if string(docs.docs["g1"]) != string(raw) {
		t.Fatalf("expected raw document persisted")
	}

	if _, err := p.FetchPlayByPlay(context.Background(), "g1"); err != nil {
		t.Fatalf("expected persisted document, got %v", err)
	}
	if upstream.Calls.Load() != 1 {
		t.Fatalf("expected a single upstream call, got %d", upstream.Calls.Load())
	}
}

func TestFetchSurvivesPersistFailure(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	docs := &memoryDocs{saveErr: errors.New("disk full")}
	upstream := &teststubs.StubUpstream{PlayByPlay: map[string][]byte{
		"g1": testutil.PlayByPlayJSON(testutil.ThreeActionLog("g1", testutil.T0)),
	}}

	if _, err := New(docs, upstream, logger).FetchPlayByPlay(context.Background(), "g1"); err != nil {
		t.Fatalf("expected success despite persist failure, got %v", err)
	}
	if !strings.Contains(buf.String(), "persist play-by-play failed") {
		t.Fatalf("expected persist warning, got %s", buf.String())
	}
}

func TestFetchRefetchesCorruptLocalDocument(t *testing.T) {
	docs := &memoryDocs{docs: map[string][]byte{"g1": []byte("{broken")}}
	upstream := &teststubs.StubUpstream{PlayByPlay: map[string][]byte{
		"g1": testutil.PlayByPlayJSON(testutil.ThreeActionLog("g1", testutil.T0)),
	}}

	game, err := New(docs, upstream, nil).FetchPlayByPlay(context.Background(), "g1")
	if err != nil || len(game.Actions) != 3 {
		t.Fatalf("expected refetched game, got %+v err %v", game, err)
	}
	if docs.saves != 1 {
		t.Fatalf("expected corrupt document replaced")
	}
}

func TestFetchIgnoresUnreadableStore(t *testing.T) {
	docs := &memoryDocs{loadErr: errors.New("redis down")}
	upstream := &teststubs.StubUpstream{PlayByPlay: map[string][]byte{
		"g1": testutil.PlayByPlayJSON(testutil.ThreeActionLog("g1", testutil.T0)),
	}}
	if _, err := New(docs, upstream, nil).FetchPlayByPlay(context.Background(), "g1"); err != nil {
		t.Fatalf("expected upstream fallback, got %v", err)
	}
}

func TestFetchErrors(t *testing.T) {
	boom := errors.New("boom")
	upstream := &teststubs.StubUpstream{Errs: []error{boom}}
	if _, err := New(nil, upstream, nil).FetchPlayByPlay(context.Background(), "g1"); !errors.Is(err, boom) {
		t.Fatalf("expected upstream error, got %v", err)
	}

	invalid := &teststubs.StubUpstream{PlayByPlay: map[string][]byte{"g1": []byte("nope")}}
	docs := &memoryDocs{}
	if _, err := New(docs, invalid, nil).FetchPlayByPlay(context.Background(), "g1"); err == nil {
		t.Fatalf("expected decode error")
	}
	if docs.saves != 0 {
		t.Fatalf("expected invalid document not persisted")
	}

	if _, err := New(&memoryDocs{}, nil, nil).FetchPlayByPlay(context.Background(), "g1"); !errors.Is(err, providers.ErrProviderUnavailable) {
		t.Fatalf("expected provider unavailable, got %v", err)
	}
}

func TestFetchWithFSStore(t *testing.T) {
	store := fixtures.NewFSStore(t.TempDir())
	upstream := &teststubs.StubUpstream{PlayByPlay: map[string][]byte{
		"0022400001": testutil.PlayByPlayJSON(testutil.ThreeActionLog("0022400001", testutil.T0)),
	}}
	p := New(store, upstream, nil)

	for i := 0; i < 2; i++ {
		if _, err := p.FetchPlayByPlay(context.Background(), "0022400001"); err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
	}
	if upstream.Calls.Load() != 1 {
		t.Fatalf("expected document served from disk on second fetch")
	}
}
