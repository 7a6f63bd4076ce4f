package query

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/everyfind/internal/action"
	"github.com/Aman-CERP/everyfind/internal/config"
	"github.com/Aman-CERP/everyfind/internal/logging"
	"github.com/Aman-CERP/everyfind/internal/provider"
	"github.com/Aman-CERP/everyfind/internal/result"
	"github.com/Aman-CERP/everyfind/internal/telemetry"
)

type searchFunc func(ctx context.Context, text string, limit int) ([]provider.Match, error)

// fakeClient counts calls and delegates to fn.
type fakeClient struct {
	calls atomic.Int32
	fn    searchFunc
}

func (f *fakeClient) Search(ctx context.Context, text string, limit int) ([]provider.Match, error) {
	f.calls.Add(1)
	return f.fn(ctx, text, limit)
}

func matches(n int) []provider.Match {
	out := make([]provider.Match, n)
	for i := range out {
		out[i] = provider.Match{
			Name:     fmt.Sprintf("f%d.txt", i),
			FullPath: fmt.Sprintf("/d/f%d.txt", i),
			Kind:     provider.KindFile,
		}
	}
	return out
}

func returning(ms []provider.Match, err error) *fakeClient {
	return &fakeClient{fn: func(context.Context, string, int) ([]provider.Match, error) {
		return ms, err
	}}
}

func newCoordinator(client provider.Client, s *config.Settings, opts ...Option) *Coordinator {
	opts = append([]Option{WithLogger(logging.Discard())}, opts...)
	return New(client, func() *config.Settings { return s }, opts...)
}

func TestQuery_ScoresFollowProviderOrder(t *testing.T) {
	// Given: a provider returning two matches and the default cap
	ms := []provider.Match{
		{Name: "report.pdf", FullPath: "/a/report.pdf", Kind: provider.KindFile},
		{Name: "report.pdf", FullPath: "/b/report.pdf", Kind: provider.KindFile},
	}
	c := newCoordinator(returning(ms, nil), config.NewSettings())

	// When: querying
	got := c.Query(context.Background(), "report.pdf")

	// Then: scores are 30 and 29 in provider order
	require.Len(t, got, 2)
	assert.Equal(t, 30, got[0].Score)
	assert.Equal(t, 29, got[1].Score)
	assert.Equal(t, "/a/report.pdf", got[0].Subtitle)
	src, ok := got[1].Source()
	require.True(t, ok)
	assert.Equal(t, ms[1], src)
}

func TestQuery_PassesCapAndTruncates(t *testing.T) {
	s := config.NewSettings()
	s.MaxSearchCount = 3

	var gotLimit int
	client := &fakeClient{fn: func(_ context.Context, _ string, limit int) ([]provider.Match, error) {
		gotLimit = limit
		return matches(5), nil
	}}

	got := newCoordinator(client, s).Query(context.Background(), "f")

	assert.Equal(t, 3, gotLimit)
	require.Len(t, got, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{got[0].Score, got[1].Score, got[2].Score})
}

func TestQuery_EmptyTextSkipsProvider(t *testing.T) {
	client := returning(matches(1), nil)
	c := newCoordinator(client, config.NewSettings())

	got := c.Query(context.Background(), "")

	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, int32(0), client.calls.Load())
}

func TestQuery_UnavailableGivesOneInformationalRow(t *testing.T) {
	c := newCoordinator(returning(nil, provider.Unavailable(stderrors.New("ipc"))), config.NewSettings())

	got := c.Query(context.Background(), "x")

	require.Len(t, got, 1)
	assert.Equal(t, "Everything is not running", got[0].Title)
	assert.Equal(t, result.IconWarning, got[0].Icon)
	assert.Empty(t, got[0].TitleHighlights)
	assert.Empty(t, got[0].SubtitleHighlights)
	assert.False(t, got[0].HasSource())
}

func TestQuery_FaultGivesOneDiagnosticRow(t *testing.T) {
	fault := provider.Fault("malformed response", stderrors.New("unexpected EOF"))
	c := newCoordinator(returning(nil, fault), config.NewSettings())

	got := c.Query(context.Background(), "x")

	require.Len(t, got, 1)
	assert.Equal(t, "Query error", got[0].Title)
	assert.Contains(t, got[0].Subtitle, "malformed response")
	assert.Equal(t, result.IconError, got[0].Icon)
	assert.Equal(t, action.KindCopyDiagnostic, got[0].Action.Kind)
	assert.Contains(t, got[0].Action.Text, "unexpected EOF")
	assert.False(t, got[0].HasSource())
}

func TestQuery_PlainErrorIsAFault(t *testing.T) {
	c := newCoordinator(returning(nil, stderrors.New("boom")), config.NewSettings())

	got := c.Query(context.Background(), "x")

	require.Len(t, got, 1)
	assert.Equal(t, "Query error", got[0].Title)
	assert.Equal(t, "boom", got[0].Subtitle)
}

func TestQuery_SupersededQueryReturnsNothing(t *testing.T) {
	// Given: a provider that ignores cancellation and only returns when released
	entered := make(chan string, 2)
	release := make(chan struct{})
	client := &fakeClient{fn: func(_ context.Context, text string, _ int) ([]provider.Match, error) {
		entered <- text
		<-release
		return matches(2), nil
	}}
	c := newCoordinator(client, config.NewSettings())

	// When: a second query starts while the first is still in the provider
	var first, second []result.Result
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = c.Query(context.Background(), "a")
	}()
	require.Equal(t, "a", <-entered)

	wg.Add(1)
	go func() {
		defer wg.Done()
		second = c.Query(context.Background(), "ab")
	}()
	require.Equal(t, "ab", <-entered)
	close(release)
	wg.Wait()

	// Then: only the latest query delivers results
	assert.NotNil(t, first)
	assert.Empty(t, first)
	assert.Len(t, second, 2)
}

func TestQuery_CancellationReachesProvider(t *testing.T) {
	entered := make(chan struct{})
	client := &fakeClient{fn: func(ctx context.Context, text string, _ int) ([]provider.Match, error) {
		if text == "slow" {
			close(entered)
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return matches(1), nil
	}}
	c := newCoordinator(client, config.NewSettings())

	done := make(chan []result.Result)
	go func() { done <- c.Query(context.Background(), "slow") }()
	<-entered

	latest := c.Query(context.Background(), "fast")

	select {
	case got := <-done:
		assert.Empty(t, got)
	case <-time.After(5 * time.Second):
		t.Fatal("superseded query did not return")
	}
	assert.Len(t, latest, 1)
}

func TestQuery_EmptyTextAbandonsInFlightQuery(t *testing.T) {
	entered := make(chan struct{})
	client := &fakeClient{fn: func(ctx context.Context, _ string, _ int) ([]provider.Match, error) {
		close(entered)
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	c := newCoordinator(client, config.NewSettings())

	done := make(chan []result.Result)
	go func() { done <- c.Query(context.Background(), "a") }()
	<-entered

	assert.Empty(t, c.Query(context.Background(), ""))
	assert.Empty(t, <-done)
	assert.Equal(t, int32(1), client.calls.Load())
}

func TestQuery_OnlyLastOfManyConcurrentQueriesDelivers(t *testing.T) {
	const n = 20
	started := make(chan struct{}, n+1)
	release := make(chan struct{})
	client := &fakeClient{fn: func(_ context.Context, _ string, _ int) ([]provider.Match, error) {
		started <- struct{}{}
		<-release
		return matches(1), nil
	}}
	c := newCoordinator(client, config.NewSettings())

	var delivered atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if len(c.Query(context.Background(), fmt.Sprintf("q%d", i))) > 0 {
				delivered.Add(1)
			}
		}(i)
	}
	for i := 0; i < n; i++ {
		<-started
	}

	var last []result.Result
	wg.Add(1)
	go func() {
		defer wg.Done()
		last = c.Query(context.Background(), "final")
	}()
	<-started
	close(release)
	wg.Wait()

	assert.Equal(t, int32(0), delivered.Load())
	assert.Len(t, last, 1)
}

func TestQuery_ReadsOneSettingsSnapshot(t *testing.T) {
	s := config.NewSettings()
	s.MaxSearchCount = 10
	var reads atomic.Int32
	c := New(returning(matches(2), nil), func() *config.Settings {
		reads.Add(1)
		return s
	}, WithLogger(logging.Discard()))

	got := c.Query(context.Background(), "f")

	assert.Equal(t, int32(1), reads.Load())
	assert.Equal(t, 10, got[0].Score)
}

func TestQuery_RecordsOutcomes(t *testing.T) {
	m := telemetry.NewQueryMetrics()

	newCoordinator(returning(matches(2), nil), config.NewSettings(), WithMetrics(m)).
		Query(context.Background(), "report")
	newCoordinator(returning(nil, nil), config.NewSettings(), WithMetrics(m)).
		Query(context.Background(), "nothing")
	newCoordinator(returning(nil, provider.Unavailable(nil)), config.NewSettings(), WithMetrics(m)).
		Query(context.Background(), "x")
	newCoordinator(returning(nil, stderrors.New("boom")), config.NewSettings(), WithMetrics(m)).
		Query(context.Background(), "y")

	snap := m.Snapshot()
	assert.Equal(t, int64(1), snap.Count(telemetry.OutcomeResults))
	assert.Equal(t, int64(1), snap.Count(telemetry.OutcomeEmpty))
	assert.Equal(t, int64(1), snap.Count(telemetry.OutcomeUnavailable))
	assert.Equal(t, int64(1), snap.Count(telemetry.OutcomeFault))
	assert.Contains(t, snap.ZeroResultQueries, "nothing")
}

func TestClose_CancelsLiveQuery(t *testing.T) {
	entered := make(chan struct{})
	client := &fakeClient{fn: func(ctx context.Context, _ string, _ int) ([]provider.Match, error) {
		close(entered)
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	c := newCoordinator(client, config.NewSettings())

	done := make(chan []result.Result)
	go func() { done <- c.Query(context.Background(), "a") }()
	<-entered

	c.Close()

	assert.Empty(t, <-done)
	assert.Empty(t, c.Query(context.Background(), "b"))
}
