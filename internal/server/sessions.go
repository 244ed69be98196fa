package server

import (
	"sync"
	"time"

	"github.com/conneroisu/landing/internal/landing"
)

type session struct {
	page    *landing.Page
	created time.Time
	claimed bool
}

// sessionStore holds the pages served by GET / until their websocket claims
// them. A page is unmounted when its socket closes or when nobody claims it
// within the TTL.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (ss *sessionStore) add(page *landing.Page) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[page.ID()] = &session{page: page, created: ss.now()}
}

// claim hands the page to a websocket. Each page can be claimed once.
func (ss *sessionStore) claim(id string) (*landing.Page, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	s, ok := ss.sessions[id]
	if !ok || s.claimed {
		return nil, false
	}
	s.claimed = true
	return s.page, true
}

func (ss *sessionStore) release(id string) {
	ss.mu.Lock()
	s, ok := ss.sessions[id]
	delete(ss.sessions, id)
	ss.mu.Unlock()

	if ok {
		s.page.Unmount()
	}
}

// sweep unmounts unclaimed pages older than the TTL and returns how many it
// removed.
func (ss *sessionStore) sweep() int {
	cutoff := ss.now().Add(-ss.ttl)

	ss.mu.Lock()
	var expired []*landing.Page
	for id, s := range ss.sessions {
		if !s.claimed && s.created.Before(cutoff) {
			expired = append(expired, s.page)
			delete(ss.sessions, id)
		}
	}
	ss.mu.Unlock()

	for _, page := range expired {
		page.Unmount()
	}
	return len(expired)
}

func (ss *sessionStore) count() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.sessions)
}

func (ss *sessionStore) closeAll() {
	ss.mu.Lock()
	sessions := ss.sessions
	ss.sessions = make(map[string]*session)
	ss.mu.Unlock()

	for _, s := range sessions {
		s.page.Unmount()
	}
}
