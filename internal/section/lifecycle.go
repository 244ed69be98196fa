package section

import (
	"context"
	"sync"

	"github.com/conneroisu/landing/internal/api"
)

// Section names double as the page anchors of the sections.
const (
	NameArticles = "posts"
	NameUsers    = "users"
	NameStats    = "stats"
)

// Failure messages are the catalog keys of the generic text shown in place of
// a section that could not load. The underlying error is never shown.
const (
	ArticlesFailure = "failed to load articles"
	UsersFailure    = "failed to load users"
	StatsFailure    = "failed to load statistics"
)

// Source is the subset of the remote data client the view-models need.
type Source interface {
	FetchArticles(ctx context.Context, limit int) ([]api.Article, error)
	FetchUsers(ctx context.Context, limit int) ([]api.User, error)
	FetchComments(ctx context.Context) ([]api.Comment, error)
	FetchPhotos(ctx context.Context) ([]api.Photo, error)
}

// lifecycle carries what every view-model shares: the once-only mount, the
// unmounted flag that discards late results, change listeners and the done
// signal.
type lifecycle struct {
	mu        sync.RWMutex
	mountOnce sync.Once
	unmounted bool
	listeners []func()
	done      chan struct{}
}

// OnChange registers fn to be called after every state transition. It is
// called without any lock held, from the goroutine that ran the fetch.
func (l *lifecycle) OnChange(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.unmounted {
		return
	}
	l.listeners = append(l.listeners, fn)
}

// Done is closed once the fetch sequence has finished, whether its result was
// applied, discarded or swallowed.
func (l *lifecycle) Done() <-chan struct{} {
	return l.done
}

// Unmount destroys the view-model. Results arriving afterwards are discarded
// and no listener is called again. In-flight requests are left to finish.
func (l *lifecycle) Unmount() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.unmounted = true
	l.listeners = nil
}

// Unmounted reports whether Unmount has been called.
func (l *lifecycle) Unmounted() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.unmounted
}

// mount runs fn in its own goroutine the first time it is called.
func (l *lifecycle) mount(fn func()) {
	l.mountOnce.Do(func() {
		go func() {
			defer close(l.done)
			fn()
		}()
	})
}

// commit applies a transition unless the view-model was unmounted, then
// notifies listeners. It reports whether the transition was applied.
func (l *lifecycle) commit(apply func()) bool {
	l.mu.Lock()
	if l.unmounted {
		l.mu.Unlock()
		return false
	}
	apply()
	listeners := make([]func(), len(l.listeners))
	copy(listeners, l.listeners)
	l.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return true
}
