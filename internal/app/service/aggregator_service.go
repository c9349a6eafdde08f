package service

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"time"

	"leetboard/internal/app/provider"
	"leetboard/internal/common"
	"leetboard/internal/domain/model"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// StatsAggregator resolves a fixed roster against a StatsProvider.
type StatsAggregator struct {
	usernames    []string
	provider     provider.StatsProvider
	concurrency  int
	fetchTimeout time.Duration
}

// AggregatorOptions tunes a StatsAggregator. The zero value fetches every
// username at once and relies on the transport's own timeouts.
type AggregatorOptions struct {
	Concurrency  int           // <= 0 means one goroutine per username
	FetchTimeout time.Duration // 0 keeps the transport default
}

func NewStatsAggregator(usernames []string, p provider.StatsProvider, opts AggregatorOptions) (*StatsAggregator, error) {
	if len(usernames) == 0 {
		return nil, fmt.Errorf("new aggregator: %w: %v", common.ErrValidation, common.ErrEmptyRoster)
	}
	if p == nil {
		return nil, fmt.Errorf("new aggregator: %w: nil stats provider", common.ErrValidation)
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 || concurrency > len(usernames) {
		concurrency = len(usernames)
	}
	return &StatsAggregator{
		usernames:    append([]string(nil), usernames...),
		provider:     p,
		concurrency:  concurrency,
		fetchTimeout: opts.FetchTimeout,
	}, nil
}

// Usernames returns a copy of the roster the aggregator was built with.
func (a *StatsAggregator) Usernames() []string {
	return append([]string(nil), a.usernames...)
}

// Aggregate runs one pass: every username is fetched concurrently and the
// call returns once all fetches have settled. Failed usernames are logged
// and left out. The result keeps roster order.
//
// The only error returned is ErrAggregation, when ctx ends before the pass
// completes.
func (a *StatsAggregator) Aggregate(ctx context.Context) ([]model.ParticipantStats, error) {
	passID := uuid.NewString()
	started := time.Now()

	slots := make([]*model.ParticipantStats, len(a.usernames))

	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, username := range a.usernames {
		i, username := i, username
		g.Go(func() error {
			slots[i] = a.fetchOne(ctx, passID, username)
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pass %s: %w: %v", passID, common.ErrAggregation, err)
	}

	results := make([]model.ParticipantStats, 0, len(slots))
	for _, s := range slots {
		if s != nil {
			results = append(results, *s)
		}
	}
	log.Printf("INFO: Aggregation pass %s resolved %d/%d participants in %s",
		passID, len(results), len(a.usernames), time.Since(started).Round(time.Millisecond))
	return results, nil
}

// fetchOne never fails: any error, including a panic in the provider, becomes nil.
func (a *StatsAggregator) fetchOne(ctx context.Context, passID, username string) (stats *model.ParticipantStats) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: [pass %s] panic fetching %s: %v\n%s", passID, username, r, debug.Stack())
			stats = nil
		}
	}()

	if a.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.fetchTimeout)
		defer cancel()
	}

	s, err := a.provider.FetchStats(ctx, username)
	if err != nil {
		log.Printf("ERROR: [pass %s] fetching %s: %v", passID, username, err)
		return nil
	}
	if s == nil {
		log.Printf("WARN: [pass %s] provider returned no stats for %s", passID, username)
		return nil
	}
	// The roster is the source of truth for identity.
	s.Username = username
	return s
}
