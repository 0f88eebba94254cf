package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/undokids/undokids/internal/admin/domain"
	"github.com/undokids/undokids/internal/admin/identity"
	"github.com/undokids/undokids/internal/admin/policy"
	"github.com/undokids/undokids/internal/admin/store"
	"github.com/undokids/undokids/pkg/httpx"
	"github.com/undokids/undokids/pkg/slogx"
)

// SessionCookie is the cookie carrying the hosted auth access token.
const SessionCookie = "uk_session"

// reservedSubdomains never resolve to a tenant.
var reservedSubdomains = map[string]bool{
	"admin": true,
	"www":   true,
	"app":   true,
	"api":   true,
}

// Gate is the per-request access middleware. It rewrites tenant
// subdomains onto the /store/ path space and role-gates the /admin/
// surface. It runs before every handler.
type Gate struct {
	Verifier *identity.Verifier
	Identity identity.Client
	Store    store.Store
}

// Middleware returns the gate as a chainable middleware.
func (g *Gate) Middleware() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			g.serve(w, r, next)
		})
	}
}

func (g *Gate) serve(w http.ResponseWriter, r *http.Request, next http.Handler) {
	// Step 1: subdomain -> /store/<slug> rewrite. Short-circuits: a
	// rewritten request dispatches with no further gate checks.
	if slug := tenantSlug(r.Host); slug != "" && !strings.HasPrefix(r.URL.Path, "/store/") {
		r2 := r.Clone(r.Context())
		r2.URL.Path = "/store/" + slug + r.URL.Path
		next.ServeHTTP(w, r2)
		return
	}

	path := r.URL.Path
	if !strings.HasPrefix(path, policy.AdminPrefix) {
		next.ServeHTTP(w, r)
		return
	}

	session, token, ok := g.session(r)

	// Step 3: the login page itself. A signed-in caller is forwarded to
	// their landing page; an unknown role falls through to the form so a
	// stale session cannot loop.
	if path == policy.LoginPath {
		if ok {
			profile, err := g.Store.Profiles().GetProfile(r.Context(), session.UserID)
			if err == nil && profile.Role.Valid() {
				http.Redirect(w, r, policy.Landing(profile.Role), http.StatusSeeOther)
				return
			}
		}
		next.ServeHTTP(w, r)
		return
	}

	// Step 4: everything else under /admin/ needs a session.
	if !ok {
		redirectForPath(w, r, policy.LoginPath)
		return
	}

	profile, err := g.Store.Profiles().GetProfile(r.Context(), session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Identity still has a session but the account is gone.
			g.signOut(w, r, token)
			redirectForPath(w, r, policy.LoginPath)
			return
		}
		slogx.FromContext(r.Context()).Error("profile lookup failed", "user_id", session.UserID, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	decision := policy.Decide(profile.Role, path)
	if !decision.Allow {
		if decision.ClearSession {
			g.signOut(w, r, token)
		}
		forbidForPath(w, r, decision.RedirectTo)
		return
	}

	ctx := r.Context()
	ctx = context.WithValue(ctx, httpx.CtxKeyUserID, session.UserID)
	ctx = context.WithValue(ctx, httpx.CtxKeySession, session)
	ctx = context.WithValue(ctx, httpx.CtxKeyProfile, profile)
	next.ServeHTTP(w, r.WithContext(ctx))
}

// session reads and verifies the session cookie. The token is returned
// alongside so callers can revoke it upstream.
func (g *Gate) session(r *http.Request) (domain.Session, string, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return domain.Session{}, "", false
	}
	session, err := g.Verifier.VerifySession(c.Value)
	if err != nil || session.Expired(time.Now()) {
		return domain.Session{}, "", false
	}
	return session, c.Value, true
}

// signOut revokes the token upstream and expires the cookie. Revocation
// failure is logged only; the cookie clear alone ends the browser session.
func (g *Gate) signOut(w http.ResponseWriter, r *http.Request, token string) {
	if token != "" {
		if err := g.Identity.SignOut(r.Context(), token); err != nil {
			slogx.FromContext(r.Context()).Warn("session revocation failed", "error", err)
		}
	}
	clearSessionCookie(w)
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// profileFromContext returns the profile the gate attached for the
// authenticated caller.
func profileFromContext(ctx context.Context) (domain.Profile, bool) {
	p, ok := ctx.Value(httpx.CtxKeyProfile).(domain.Profile)
	return p, ok
}

// redirectForPath answers a browser navigation with a 303 and an API call
// with a 401 carrying the redirect target, so fetch() callers are not fed
// an HTML login page.
func redirectForPath(w http.ResponseWriter, r *http.Request, target string) {
	apiAwareDeny(w, r, target, http.StatusUnauthorized, "authentication required")
}

// forbidForPath is the same for an authenticated caller whose role does
// not cover the path: the API answer is a 403.
func forbidForPath(w http.ResponseWriter, r *http.Request, target string) {
	apiAwareDeny(w, r, target, http.StatusForbidden, "forbidden")
}

func apiAwareDeny(w http.ResponseWriter, r *http.Request, target string, status int, message string) {
	if strings.HasPrefix(r.URL.Path, "/admin/api/") {
		httpx.NoCache(w)
		w.Header().Set("X-Redirect-To", target)
		httpx.WriteError(w, status, message)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// tenantSlug resolves the tenant label from a host header, or "" when the
// host is not a tenant subdomain. Loopback and bare development hosts are
// never rewritten.
func tenantSlug(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if host == "" || host == "localhost" || net.ParseIP(host) != nil {
		return ""
	}
	labels := strings.Split(host, ".")
	if len(labels) < 3 {
		return ""
	}
	if reservedSubdomains[labels[0]] {
		return ""
	}
	return labels[0]
}
