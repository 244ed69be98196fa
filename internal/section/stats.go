package section

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/conneroisu/landing/internal/logging"
)

// StatsLimits are the limits sent with the two limited statistics fetches.
type StatsLimits struct {
	Posts int
	Users int
}

// DefaultStatsLimits returns the limits the statistics section uses.
func DefaultStatsLimits() StatsLimits {
	return StatsLimits{Posts: 100, Users: 10}
}

// StatsOptions configures the statistics view-model.
type StatsOptions struct {
	// Limits are sent to the source as given, zero included.
	Limits StatsLimits
	// ReportErrors moves the section to PhaseError when the join fails. When
	// false the failure is only logged and the section stays in PhaseLoading.
	ReportErrors   bool
	FailureMessage string
}

// Stats is the view-model of the statistics section.
//
// Loading -(all four fetches succeed)-> Ready(snapshot)
// Loading -(any fetch fails)-> Loading, or Error with ReportErrors
type Stats struct {
	lifecycle
	source Source
	opts   StatsOptions
	logger logging.Logger
	state  StatsState
	err    error
}

// NewStats creates a statistics view-model in the Loading phase.
func NewStats(source Source, opts StatsOptions, logger logging.Logger) *Stats {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if opts.FailureMessage == "" {
		opts.FailureMessage = StatsFailure
	}

	return &Stats{
		lifecycle: lifecycle{done: make(chan struct{})},
		source:    source,
		opts:      opts,
		logger:    logger.WithComponent("section").With("section", NameStats),
		state:     StatsState{Phase: PhaseLoading},
	}
}

// Name returns the section name.
func (s *Stats) Name() string {
	return NameStats
}

// Mount starts the four concurrent fetches. Later calls do nothing.
func (s *Stats) Mount(ctx context.Context) {
	s.mount(func() { s.load(ctx) })
}

func (s *Stats) load(ctx context.Context) {
	op := logging.StartOperation(s.logger, "stats_join")
	snapshot, err := s.join(ctx)
	op.End(ctx, "ok", err == nil)
	if err != nil {
		s.logger.Error(ctx, err, "Error fetching stats")

		s.mu.Lock()
		s.err = err
		s.mu.Unlock()

		if s.opts.ReportErrors {
			s.commit(func() {
				s.state = StatsState{Phase: PhaseError, ErrorMessage: s.opts.FailureMessage}
			})
		}
		return
	}

	s.commit(func() {
		s.state = StatsState{Phase: PhaseReady, Snapshot: snapshot}
	})
}

// join waits for all four fetches and fails as soon as one of them fails; the
// others are cancelled through the group context.
func (s *Stats) join(ctx context.Context) (Snapshot, error) {
	var snapshot Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		items, err := s.source.FetchArticles(gctx, s.opts.Limits.Posts)
		snapshot.Posts = len(items)
		return err
	})
	g.Go(func() error {
		items, err := s.source.FetchUsers(gctx, s.opts.Limits.Users)
		snapshot.Users = len(items)
		return err
	})
	g.Go(func() error {
		items, err := s.source.FetchComments(gctx)
		snapshot.Comments = len(items)
		return err
	})
	g.Go(func() error {
		items, err := s.source.FetchPhotos(gctx)
		snapshot.Photos = len(items)
		return err
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snapshot, nil
}

// State returns a copy of the current state.
func (s *Stats) State() StatsState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Err returns the error that stopped the join, if any. It is kept for
// diagnostics only; it never reaches the rendered page.
func (s *Stats) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}
