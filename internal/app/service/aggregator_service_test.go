package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"leetboard/internal/common"
	"leetboard/internal/domain/model"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	mu       sync.Mutex
	calls    []string
	ranks    map[string]int
	fail     map[string]bool
	panics   map[string]bool
	delay    time.Duration
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (f *fakeProvider) FetchStats(ctx context.Context, username string) (*model.ParticipantStats, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		m := f.maxSeen.Load()
		if n <= m || f.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, username)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.panics[username] {
		panic("provider exploded")
	}
	if f.fail[username] {
		return nil, errors.New("upstream 503")
	}
	rank, ok := f.ranks[username]
	stats := &model.ParticipantStats{
		Username:   username,
		ProfileURL: model.ProfileURL("", username),
	}
	if ok {
		stats.WorldwideRank = &rank
	}
	return stats, nil
}

func usernamesOf(stats []model.ParticipantStats) []string {
	out := make([]string, 0, len(stats))
	for _, s := range stats {
		out = append(out, s.Username)
	}
	return out
}

func TestNewStatsAggregatorValidation(t *testing.T) {
	_, err := NewStatsAggregator(nil, &fakeProvider{}, AggregatorOptions{})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = NewStatsAggregator([]string{"alice"}, nil, AggregatorOptions{})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestAggregateDropsFailures(t *testing.T) {
	p := &fakeProvider{
		ranks: map[string]int{"alice": 100},
		fail:  map[string]bool{"bob": true},
	}
	agg, err := NewStatsAggregator([]string{"alice", "bob"}, p, AggregatorOptions{})
	require.NoError(t, err)

	got, err := agg.Aggregate(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "alice", got[0].Username)
	assert.Equal(t, 100, *got[0].WorldwideRank)
	assert.ElementsMatch(t, []string{"alice", "bob"}, p.calls)
}

func TestAggregateKeepsRosterOrder(t *testing.T) {
	roster := []string{"erin", "dave", "carol", "bob", "alice"}
	p := &fakeProvider{
		fail:  map[string]bool{"carol": true},
		delay: 5 * time.Millisecond,
	}
	agg, err := NewStatsAggregator(roster, p, AggregatorOptions{Concurrency: 2})
	require.NoError(t, err)

	got, err := agg.Aggregate(context.Background())
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"erin", "dave", "bob", "alice"}, usernamesOf(got)); diff != "" {
		t.Errorf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestAggregateOutputSubsetOfInput(t *testing.T) {
	roster := []string{"a", "b", "c", "d", "e", "f"}
	p := &fakeProvider{fail: map[string]bool{"b": true, "e": true}, panics: map[string]bool{"f": true}}
	agg, err := NewStatsAggregator(roster, p, AggregatorOptions{})
	require.NoError(t, err)

	got, err := agg.Aggregate(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, len(got), len(roster))
	assert.Equal(t, []string{"a", "c", "d"}, usernamesOf(got))
	for _, s := range got {
		assert.Contains(t, roster, s.Username)
	}
}

func TestAggregateAllFailIsEmptyNotError(t *testing.T) {
	p := &fakeProvider{fail: map[string]bool{"alice": true, "bob": true}}
	agg, err := NewStatsAggregator([]string{"alice", "bob"}, p, AggregatorOptions{})
	require.NoError(t, err)

	got, err := agg.Aggregate(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAggregateRespectsConcurrencyLimit(t *testing.T) {
	roster := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	p := &fakeProvider{delay: 10 * time.Millisecond}
	agg, err := NewStatsAggregator(roster, p, AggregatorOptions{Concurrency: 3})
	require.NoError(t, err)

	got, err := agg.Aggregate(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, len(roster))
	assert.LessOrEqual(t, p.maxSeen.Load(), int32(3))
}

func TestAggregateUnboundedByDefault(t *testing.T) {
	roster := []string{"a", "b", "c", "d", "e", "f"}
	p := &fakeProvider{delay: 50 * time.Millisecond}
	agg, err := NewStatsAggregator(roster, p, AggregatorOptions{Concurrency: 0})
	require.NoError(t, err)

	got, err := agg.Aggregate(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, len(roster))
	assert.Equal(t, int32(len(roster)), p.maxSeen.Load())
}

func TestAggregatePerFetchTimeout(t *testing.T) {
	p := &fakeProvider{delay: time.Second}
	agg, err := NewStatsAggregator([]string{"slow"}, p, AggregatorOptions{FetchTimeout: 10 * time.Millisecond})
	require.NoError(t, err)

	start := time.Now()
	got, err := agg.Aggregate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestAggregateCancelledContext(t *testing.T) {
	p := &fakeProvider{delay: time.Second}
	agg, err := NewStatsAggregator([]string{"alice", "bob"}, p, AggregatorOptions{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	got, err := agg.Aggregate(ctx)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, common.ErrAggregation)
}

func TestUsernamesIsACopy(t *testing.T) {
	agg, err := NewStatsAggregator([]string{"alice"}, &fakeProvider{}, AggregatorOptions{})
	require.NoError(t, err)

	names := agg.Usernames()
	names[0] = "mallory"
	assert.Equal(t, []string{"alice"}, agg.Usernames())
}
