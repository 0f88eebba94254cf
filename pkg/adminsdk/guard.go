package adminsdk

import (
	"context"
	"errors"
	"sync"

	"github.com/undokids/undokids/internal/admin/domain"
	"github.com/undokids/undokids/internal/admin/policy"
)

// GuardState is the lifecycle of one guard check.
type GuardState int

const (
	GuardIdle GuardState = iota
	GuardChecking
	GuardAuthorized
	GuardDenied
)

func (s GuardState) String() string {
	switch s {
	case GuardIdle:
		return "idle"
	case GuardChecking:
		return "checking"
	case GuardAuthorized:
		return "authorized"
	case GuardDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// GuardResult is the outcome the page acts on.
type GuardResult struct {
	State GuardState

	// RedirectTo is set when State is GuardDenied.
	RedirectTo string

	// Tenant is set when the slug resolved, whatever the outcome.
	Tenant Tenant
}

// Guard protects one tenant page mount. It re-runs the authorization
// check when the auth state changes and reports outcomes through the
// OnChange callback. Create one per mount and Stop it on unmount.
type Guard struct {
	session *Session
	slug    string

	// OnChange receives every state transition, including the initial
	// checking state. Optional.
	OnChange func(GuardResult)

	mu          sync.Mutex
	result      GuardResult
	stopped     bool
	unsubscribe func()
}

// NewGuard creates a guard for a tenant page mount. It subscribes to the
// session's auth changes for its lifetime.
func NewGuard(session *Session, slug string) *Guard {
	g := &Guard{session: session, slug: slug, result: GuardResult{State: GuardIdle}}
	g.unsubscribe = session.Subscribe(func(Event) {
		g.Check(context.Background())
	})
	return g
}

// Result returns the latest outcome.
func (g *Guard) Result() GuardResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.result
}

// Check runs the authorization sequence: session, tenant by slug,
// profile, tenant policy. A deny signs the caller out and targets the
// tenant's login page.
func (g *Guard) Check(ctx context.Context) GuardResult {
	if !g.transition(GuardResult{State: GuardChecking}) {
		return g.Result()
	}

	g.session.Init(ctx)
	snap := g.session.Current()
	if !snap.SignedIn {
		return g.deny(GuardResult{State: GuardDenied, RedirectTo: policy.TenantLoginPath(g.slug)}, false)
	}

	tenant, err := g.session.client.TenantBySlug(ctx, g.slug)
	if err != nil {
		if errors.Is(err, ErrTenantNotFound) {
			return g.deny(GuardResult{State: GuardDenied, RedirectTo: policy.TenantLoginPath(g.slug)}, false)
		}
		// Transient failure: stay safe, deny without killing the session.
		return g.deny(GuardResult{State: GuardDenied, RedirectTo: policy.TenantLoginPath(g.slug)}, false)
	}

	decision := policy.AuthorizeTenant(toDomainProfile(snap.Profile), toDomainTenant(tenant))
	if !decision.Allow {
		res := GuardResult{State: GuardDenied, RedirectTo: decision.RedirectTo, Tenant: tenant}
		return g.deny(res, decision.ClearSession)
	}

	res := GuardResult{State: GuardAuthorized, Tenant: tenant}
	g.transition(res)
	return res
}

// Stop unsubscribes the guard. No state updates happen afterwards.
func (g *Guard) Stop() {
	g.mu.Lock()
	if g.stopped {
		g.mu.Unlock()
		return
	}
	g.stopped = true
	unsub := g.unsubscribe
	g.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (g *Guard) deny(res GuardResult, clearSession bool) GuardResult {
	g.transition(res)
	if clearSession {
		// SignOut triggers an auth-change, which would re-enter Check
		// through the subscription. Unhook before revoking.
		g.Stop()
		_ = g.session.SignOut(context.Background())
	}
	return res
}

// transition stores and publishes a new result unless the guard has been
// stopped.
func (g *Guard) transition(res GuardResult) bool {
	g.mu.Lock()
	if g.stopped {
		g.mu.Unlock()
		return false
	}
	g.result = res
	cb := g.OnChange
	g.mu.Unlock()

	if cb != nil {
		cb(res)
	}
	return true
}

func toDomainProfile(p Profile) domain.Profile {
	return domain.Profile{
		ID:        p.ID,
		Email:     p.Email,
		Name:      p.Name,
		Role:      domain.Role(p.Role),
		PartnerID: p.PartnerID,
		StoreID:   p.StoreID,
	}
}

func toDomainTenant(t Tenant) domain.Tenant {
	return domain.Tenant{
		ID:        t.ID,
		Slug:      t.Slug,
		Name:      t.Name,
		PartnerID: t.PartnerID,
	}
}
