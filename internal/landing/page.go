// Package landing composes the three section view-models into one page.
package landing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/conneroisu/landing/internal/api"
	"github.com/conneroisu/landing/internal/logging"
	"github.com/conneroisu/landing/internal/section"
	"github.com/conneroisu/landing/internal/view"
)

// Options sets the limits and behaviour of the page sections.
type Options struct {
	ArticlesLimit     int
	UsersLimit        int
	StatsLimits       section.StatsLimits
	StatsReportErrors bool
	Locale            language.Tag
}

// DefaultOptions returns the limits of the landing page.
func DefaultOptions() Options {
	return Options{
		ArticlesLimit: api.DefaultArticlesLimit,
		UsersLimit:    api.DefaultUsersLimit,
		StatsLimits:   section.DefaultStatsLimits(),
		Locale:        view.Supported[0],
	}
}

// Page owns the view-models of one rendering of the landing page.
type Page struct {
	id       string
	opts     Options
	logger   logging.Logger
	articles *section.List[api.Article]
	users    *section.List[api.User]
	stats    *section.Stats
	now      func() time.Time

	mu        sync.Mutex
	listeners []func(name string)
}

// NewPage creates a page whose sections are all Loading.
func NewPage(source section.Source, opts Options, logger logging.Logger) *Page {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	id := uuid.NewString()
	logger = logger.With("page", id)

	p := &Page{
		id:       id,
		opts:     opts,
		logger:   logger,
		articles: section.NewArticles(source, opts.ArticlesLimit, section.ArticlesFailure, logger),
		users:    section.NewUsers(source, opts.UsersLimit, section.UsersFailure, logger),
		stats: section.NewStats(source, section.StatsOptions{
			Limits:       opts.StatsLimits,
			ReportErrors: opts.StatsReportErrors,
		}, logger),
		now: time.Now,
	}

	p.articles.OnChange(func() { p.notify(section.NameArticles) })
	p.users.OnChange(func() { p.notify(section.NameUsers) })
	p.stats.OnChange(func() { p.notify(section.NameStats) })

	return p
}

// ID returns the session identifier of the page.
func (p *Page) ID() string {
	return p.id
}

// Locale returns the locale the page renders in.
func (p *Page) Locale() language.Tag {
	return p.opts.Locale
}

// Mount starts the three sections independently. A slow or failing section
// never holds the others back.
func (p *Page) Mount(ctx context.Context) {
	p.logger.Debug(ctx, "Mounting page")
	p.articles.Mount(ctx)
	p.users.Mount(ctx)
	p.stats.Mount(ctx)
}

// Unmount destroys every section. Late results are discarded.
func (p *Page) Unmount() {
	p.articles.Unmount()
	p.users.Unmount()
	p.stats.Unmount()

	p.mu.Lock()
	p.listeners = nil
	p.mu.Unlock()
}

// Settled waits until every section finished its fetch sequence or ctx ends.
func (p *Page) Settled(ctx context.Context) error {
	for _, done := range []<-chan struct{}{p.articles.Done(), p.users.Done(), p.stats.Done()} {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// OnChange registers fn to be called with the section name after each
// section transition.
func (p *Page) OnChange(fn func(name string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, fn)
}

func (p *Page) notify(name string) {
	p.mu.Lock()
	listeners := make([]func(string), len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(name)
	}
}

// Articles returns the articles section state.
func (p *Page) Articles() section.State[api.Article] {
	return p.articles.State()
}

// Users returns the users section state.
func (p *Page) Users() section.State[api.User] {
	return p.users.State()
}

// Stats returns the statistics section state.
func (p *Page) Stats() section.StatsState {
	return p.stats.State()
}

// StatsErr returns the error that kept statistics from loading, if any.
func (p *Page) StatsErr() error {
	return p.stats.Err()
}

// Data snapshots the page for rendering.
func (p *Page) Data() view.PageData {
	return view.PageData{
		Locale:   p.opts.Locale,
		Year:     p.now().Year(),
		Articles: p.articles.State(),
		Users:    p.users.State(),
		Stats:    p.stats.State(),
	}
}

// Report is the settled content of a page, as served to API and CLI clients.
type Report struct {
	ID       string                     `json:"id" yaml:"id"`
	Articles section.State[api.Article] `json:"posts" yaml:"posts"`
	Users    section.State[api.User]    `json:"users" yaml:"users"`
	Stats    section.StatsState         `json:"stats" yaml:"stats"`
}

// Report snapshots the page for API and CLI clients.
func (p *Page) Report() Report {
	return Report{
		ID:       p.id,
		Articles: p.articles.State(),
		Users:    p.users.State(),
		Stats:    p.stats.State(),
	}
}

// Load mounts a new page and waits for it to settle. On timeout the page is
// unmounted and returned with whatever sections had finished.
func Load(ctx context.Context, source section.Source, opts Options, logger logging.Logger) (*Page, error) {
	p := NewPage(source, opts, logger)
	p.Mount(ctx)
	if err := p.Settled(ctx); err != nil {
		p.Unmount()
		return p, err
	}
	return p, nil
}
