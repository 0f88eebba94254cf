package adminsdk

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/undokids/undokids/internal/admin/domain"
	"github.com/undokids/undokids/internal/admin/policy"
)

// Event is an auth-state change notification.
type Event int

const (
	EventSignedIn Event = iota
	EventSignedOut
)

// Snapshot is an immutable view of the auth state. Readers get a
// consistent pair; writers swap the whole snapshot atomically.
type Snapshot struct {
	SignedIn bool
	Profile  Profile
}

// Session is the process-wide auth context: it owns the current sign-in
// state, exposes it as atomic snapshots and fans auth changes out to
// subscribers. One Session per Client.
type Session struct {
	client *Client

	state atomic.Pointer[Snapshot]

	initOnce   sync.Once
	refreshing atomic.Bool

	mu     sync.Mutex
	nextID int
	subs   map[int]func(Event)
}

// NewSession creates an auth context over a client. The state starts
// signed-out until Init or SignIn runs.
func NewSession(client *Client) *Session {
	s := &Session{client: client, subs: map[int]func(Event){}}
	s.state.Store(&Snapshot{})
	return s
}

// Init loads the current profile from the server exactly once, picking
// up a session cookie that survived a restart. Later calls are no-ops.
func (s *Session) Init(ctx context.Context) {
	s.initOnce.Do(func() {
		s.refresh(ctx)
	})
}

// Current returns the latest snapshot.
func (s *Session) Current() Snapshot {
	return *s.state.Load()
}

// IsRole reports whether the signed-in profile holds one of the roles.
func (s *Session) IsRole(roles ...string) bool {
	snap := s.Current()
	if !snap.SignedIn {
		return false
	}
	for _, role := range roles {
		if snap.Profile.Role == role {
			return true
		}
	}
	return false
}

// SignIn authenticates and loads the profile. Returns the landing path
// for the signed-in role.
func (s *Session) SignIn(ctx context.Context, email, password string) (string, error) {
	target, err := s.client.Login(ctx, email, password)
	if err != nil {
		return "", err
	}

	profile, err := s.client.Me(ctx)
	if err != nil {
		s.state.Store(&Snapshot{})
		return "", err
	}

	s.state.Store(&Snapshot{SignedIn: true, Profile: profile})
	s.notify(EventSignedIn)
	return target, nil
}

// SignOut clears the session. The redirect target is computed from the
// role captured before the state is cleared, so the caller still lands
// on a sensible page.
func (s *Session) SignOut(ctx context.Context) string {
	prev := s.Current()

	s.state.Store(&Snapshot{})
	_ = s.client.Logout(ctx)
	s.notify(EventSignedOut)

	if prev.SignedIn {
		return policy.Landing(domain.Role(prev.Profile.Role))
	}
	return policy.LoginPath
}

// Refresh re-fetches the profile. Overlapping calls are dropped rather
// than queued; the in-flight fetch's result wins.
func (s *Session) Refresh(ctx context.Context) {
	if !s.refreshing.CompareAndSwap(false, true) {
		return
	}
	defer s.refreshing.Store(false)
	s.refresh(ctx)
}

func (s *Session) refresh(ctx context.Context) {
	profile, err := s.client.Me(ctx)
	if err != nil {
		s.state.Store(&Snapshot{})
		return
	}
	s.state.Store(&Snapshot{SignedIn: true, Profile: profile})
}

// Subscribe registers fn for auth-change events. The returned function
// unsubscribes; calling it more than once is harmless.
func (s *Session) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Session) notify(ev Event) {
	s.mu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
