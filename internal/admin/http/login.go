package http

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/undokids/undokids/internal/admin/identity"
	"github.com/undokids/undokids/internal/admin/policy"
	"github.com/undokids/undokids/internal/admin/store"
	"github.com/undokids/undokids/pkg/httpx"
	"github.com/undokids/undokids/pkg/slogx"
)

var loginTemplate = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html lang="ja">
<head><meta charset="utf-8"><title>管理画面ログイン</title></head>
<body>
  <h1>管理画面ログイン</h1>
  {{if .Error}}<p class="error">{{.Error}}</p>{{end}}
  <form method="post" action="/admin/login">
    <label>メールアドレス <input type="email" name="email" required></label>
    <label>パスワード <input type="password" name="password" required></label>
    <button type="submit">ログイン</button>
  </form>
</body>
</html>`))

// LoginHandler owns the admin sign-in and sign-out flow. It is the only
// handler that talks to the identity service with user credentials.
type LoginHandler struct {
	Identity identity.Client
	Store    store.Store
}

// HandleForm renders the login page. The gate already forwarded any
// signed-in caller to their landing page before this runs.
func (h *LoginHandler) HandleForm(w http.ResponseWriter, r *http.Request) {
	httpx.NoCache(w)
	h.render(w, http.StatusOK, "")
}

// HandleLogin godoc
//
//	@Summary		Admin sign-in
//	@Description	Exchanges email and password for a session cookie, then
//	@Description	redirects to the caller's role landing page.
//	@Tags			Auth
//	@Accept			x-www-form-urlencoded
//	@Param			email		formData	string	true	"Email address"
//	@Param			password	formData	string	true	"Password"
//	@Success		303
//	@Failure		401	{string}	string	"login form with error"
//	@Router			/admin/login [post].
func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, "フォームの送信内容が不正です")
		return
	}
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		h.render(w, http.StatusBadRequest, "メールアドレスとパスワードを入力してください")
		return
	}

	result, err := h.Identity.SignInWithPassword(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			h.render(w, http.StatusUnauthorized, "メールアドレスまたはパスワードが正しくありません")
			return
		}
		slogx.FromContext(r.Context()).Error("sign-in failed", "error", err)
		h.render(w, http.StatusInternalServerError, "ログインに失敗しました。時間をおいて再度お試しください")
		return
	}

	setSessionCookie(w, result.AccessToken, result.Session.ExpiresAt)

	// Land on the role's dashboard; accounts without a profile fall back
	// to the login page where the gate's stale-account handling applies.
	target := policy.LoginPath
	if profile, err := h.Store.Profiles().GetProfile(r.Context(), result.Session.UserID); err == nil {
		target = policy.Landing(profile.Role)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// HandleLogout revokes the session and clears the cookie.
func (h *LoginHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		if err := h.Identity.SignOut(r.Context(), c.Value); err != nil {
			slogx.FromContext(r.Context()).Warn("session revocation failed", "error", err)
		}
	}
	clearSessionCookie(w)
	http.Redirect(w, r, policy.LoginPath, http.StatusSeeOther)
}

func (h *LoginHandler) render(w http.ResponseWriter, code int, errMsg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_ = loginTemplate.Execute(w, struct{ Error string }{Error: errMsg})
}
