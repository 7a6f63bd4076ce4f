package telemetry

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// CircularBuffer Tests
// =============================================================================

func TestCircularBuffer_Add_MultipleItems(t *testing.T) {
	buf := NewCircularBuffer[string](10)

	buf.Add("query1")
	buf.Add("query2")

	assert.Equal(t, []string{"query1", "query2"}, buf.Items())
	assert.Equal(t, 2, buf.Size())
}

func TestCircularBuffer_MaintainsCapacity(t *testing.T) {
	buf := NewCircularBuffer[int](3)

	for i := 1; i <= 5; i++ {
		buf.Add(i)
	}

	// Oldest first, 1 and 2 evicted
	assert.Equal(t, []int{3, 4, 5}, buf.Items())
	assert.Equal(t, 3, buf.Size())
}

func TestCircularBuffer_EmptyItems(t *testing.T) {
	buf := NewCircularBuffer[string](0)

	items := buf.Items()
	require.NotNil(t, items)
	assert.Empty(t, items)
}

// =============================================================================
// Latency Tests
// =============================================================================

func TestLatencyToBucket(t *testing.T) {
	tests := []struct {
		latency  time.Duration
		expected LatencyBucket
	}{
		{5 * time.Millisecond, BucketP10},
		{10 * time.Millisecond, BucketP50},
		{49 * time.Millisecond, BucketP50},
		{75 * time.Millisecond, BucketP100},
		{250 * time.Millisecond, BucketP500},
		{2 * time.Second, BucketP1000},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, LatencyToBucket(tt.latency), tt.latency.String())
	}
}

// =============================================================================
// QueryMetrics Tests
// =============================================================================

func TestQueryMetrics_Record_CountsOutcomes(t *testing.T) {
	m := NewQueryMetrics()

	m.Record(QueryEvent{Query: "report.pdf", Outcome: OutcomeResults, ResultCount: 2, Latency: 5 * time.Millisecond})
	m.Record(QueryEvent{Query: "rep", Outcome: OutcomeSuperseded})
	m.Record(QueryEvent{Query: "repo", Outcome: OutcomeSuperseded})
	m.Record(QueryEvent{Query: "x", Outcome: OutcomeUnavailable, Latency: time.Millisecond})
	m.Record(QueryEvent{Query: "y", Outcome: OutcomeFault, Latency: time.Millisecond})

	s := m.Snapshot()
	assert.Equal(t, int64(5), s.TotalQueries)
	assert.Equal(t, int64(1), s.Count(OutcomeResults))
	assert.Equal(t, int64(2), s.Count(OutcomeSuperseded))
	assert.Equal(t, int64(1), s.Count(OutcomeUnavailable))
	assert.Equal(t, int64(1), s.Count(OutcomeFault))
	assert.InDelta(t, 40.0, s.SupersededPercentage(), 0.001)
}

func TestQueryMetrics_Record_SupersededSkipsTermsAndLatency(t *testing.T) {
	m := NewQueryMetrics()

	m.Record(QueryEvent{Query: "invoice", Outcome: OutcomeSuperseded, Latency: time.Second})

	s := m.Snapshot()
	assert.Empty(t, s.TopTerms)
	assert.Empty(t, s.LatencyDistribution)
}

func TestQueryMetrics_Record_TracksTopTerms(t *testing.T) {
	m := NewQueryMetrics()

	m.Record(QueryEvent{Query: "report pdf", Outcome: OutcomeResults})
	m.Record(QueryEvent{Query: `docs\report`, Outcome: OutcomeResults})
	m.Record(QueryEvent{Query: "report/2024", Outcome: OutcomeResults})
	m.Record(QueryEvent{Query: "pdf", Outcome: OutcomeResults})

	s := m.Snapshot()
	require.NotEmpty(t, s.TopTerms)
	assert.Equal(t, TermCount{Term: "report", Count: 3}, s.TopTerms[0])
	assert.Equal(t, TermCount{Term: "pdf", Count: 2}, s.TopTerms[1])
}

func TestQueryMetrics_Record_CapturesEmptyQueries(t *testing.T) {
	m := NewQueryMetricsWithConfig(QueryMetricsConfig{ZeroResultsCapacity: 2})

	m.Record(QueryEvent{Query: "missA", Outcome: OutcomeEmpty})
	m.Record(QueryEvent{Query: "hit", Outcome: OutcomeResults, ResultCount: 1})
	m.Record(QueryEvent{Query: "missB", Outcome: OutcomeEmpty})
	m.Record(QueryEvent{Query: "missC", Outcome: OutcomeEmpty})

	assert.Equal(t, []string{"missB", "missC"}, m.Snapshot().ZeroResultQueries)
}

func TestQueryMetrics_Record_BucketsLatency(t *testing.T) {
	m := NewQueryMetrics()

	m.Record(QueryEvent{Query: "a1", Outcome: OutcomeResults, Latency: 5 * time.Millisecond})
	m.Record(QueryEvent{Query: "a2", Outcome: OutcomeResults, Latency: 25 * time.Millisecond})
	m.Record(QueryEvent{Query: "a3", Outcome: OutcomeResults, Latency: 35 * time.Millisecond})
	m.Record(QueryEvent{Query: "a4", Outcome: OutcomeResults, Latency: time.Second})

	s := m.Snapshot()
	assert.Equal(t, int64(1), s.LatencyDistribution[BucketP10])
	assert.Equal(t, int64(2), s.LatencyDistribution[BucketP50])
	assert.Equal(t, int64(1), s.LatencyDistribution[BucketP1000])
}

func TestQueryMetrics_ExactRepetition(t *testing.T) {
	m := NewQueryMetrics()

	m.Record(QueryEvent{Query: "Report", Outcome: OutcomeResults})
	m.Record(QueryEvent{Query: " report ", Outcome: OutcomeResults})
	m.Record(QueryEvent{Query: "other", Outcome: OutcomeResults})

	assert.Equal(t, int64(1), m.Snapshot().ExactRepeatCount)
}

func TestQueryMetrics_TopTerms_LRUEviction(t *testing.T) {
	m := NewQueryMetricsWithConfig(QueryMetricsConfig{TopTermsCapacity: 3})

	m.Record(QueryEvent{Query: "alpha beta", Outcome: OutcomeResults})
	m.Record(QueryEvent{Query: "gamma delta", Outcome: OutcomeResults})

	assert.LessOrEqual(t, len(m.Snapshot().TopTerms), 3)
}

func TestQueryMetrics_Concurrent_ThreadSafe(t *testing.T) {
	m := NewQueryMetrics()

	var wg sync.WaitGroup
	numGoroutines := 50
	eventsPerGoroutine := 100

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < eventsPerGoroutine; j++ {
				m.Record(QueryEvent{Query: "test query", Outcome: OutcomeResults, Latency: 20 * time.Millisecond})
				_ = m.Snapshot()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(numGoroutines*eventsPerGoroutine), m.Snapshot().TotalQueries)
}

func TestQueryMetrics_NilIsNoop(t *testing.T) {
	var m *QueryMetrics
	m.Record(QueryEvent{Query: "x", Outcome: OutcomeResults})
}

// =============================================================================
// Term Extraction Tests
// =============================================================================

func TestExtractTerms(t *testing.T) {
	tests := []struct {
		query    string
		expected []string
	}{
		{"Report.PDF", []string{"report.pdf"}},
		{"  spaces  around  ", []string{"spaces", "around"}},
		{`C:\Users\me`, []string{"c:", "users", "me"}},
		{"a b", nil},
		{"", nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ExtractTerms(tt.query), tt.query)
	}
}

func TestSnapshot_Summary(t *testing.T) {
	empty := NewQueryMetrics().Snapshot()
	assert.Equal(t, "No queries recorded", empty.Summary())

	m := NewQueryMetrics()
	m.Record(QueryEvent{Query: "a", Outcome: OutcomeSuperseded})
	m.Record(QueryEvent{Query: "ab", Outcome: OutcomeFault})
	assert.Equal(t, "queries=2, superseded=50.0%, faults=1", m.Snapshot().Summary())
}
