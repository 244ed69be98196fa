package section

import (
	"context"

	"github.com/conneroisu/landing/internal/api"
	"github.com/conneroisu/landing/internal/logging"
)

// Fetcher loads the records of a list section.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// List is the view-model of a section that shows a list of cards.
//
// Loading -(fetch succeeds)-> Success(items)
// Loading -(fetch fails)-> Error(failureMessage)
type List[T any] struct {
	lifecycle
	name           string
	fetch          Fetcher[T]
	failureMessage string
	logger         logging.Logger
	state          State[T]
}

// NewList creates a list view-model in the Loading phase. failureMessage is the
// text stored in the Error phase.
func NewList[T any](name string, fetch Fetcher[T], failureMessage string, logger logging.Logger) *List[T] {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	return &List[T]{
		lifecycle:      lifecycle{done: make(chan struct{})},
		name:           name,
		fetch:          fetch,
		failureMessage: failureMessage,
		logger:         logger.WithComponent("section").With("section", name),
		state:          State[T]{Phase: PhaseLoading},
	}
}

// NewArticles creates the articles view-model, fetching limit articles.
func NewArticles(source Source, limit int, failureMessage string, logger logging.Logger) *List[api.Article] {
	return NewList(NameArticles, func(ctx context.Context) ([]api.Article, error) {
		return source.FetchArticles(ctx, limit)
	}, failureMessage, logger)
}

// NewUsers creates the users view-model, fetching limit users.
func NewUsers(source Source, limit int, failureMessage string, logger logging.Logger) *List[api.User] {
	return NewList(NameUsers, func(ctx context.Context) ([]api.User, error) {
		return source.FetchUsers(ctx, limit)
	}, failureMessage, logger)
}

// Name returns the section name.
func (l *List[T]) Name() string {
	return l.name
}

// Mount starts the one fetch of this view-model. Later calls do nothing.
func (l *List[T]) Mount(ctx context.Context) {
	l.mount(func() { l.load(ctx) })
}

func (l *List[T]) load(ctx context.Context) {
	items, err := l.fetch(ctx)
	if err != nil {
		l.logger.Warn(ctx, err, "Section failed to load")
		l.commit(func() {
			l.state = State[T]{Phase: PhaseError, ErrorMessage: l.failureMessage}
		})
		return
	}

	applied := l.commit(func() {
		l.state = State[T]{Phase: PhaseSuccess, Items: items}
	})
	if !applied {
		l.logger.Debug(ctx, "Discarded result of unmounted section", "count", len(items))
	}
}

// State returns a copy of the current state.
func (l *List[T]) State() State[T] {
	l.mu.RLock()
	defer l.mu.RUnlock()

	state := l.state
	if l.state.Items != nil {
		state.Items = make([]T, len(l.state.Items))
		copy(state.Items, l.state.Items)
	}
	return state
}
