// Package identitydev is an in-memory implementation of the hosted auth
// service's REST contract. It exists for local development and tests;
// production deployments point at the real service instead.
package identitydev

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/undokids/undokids/pkg/cryptox"
	"github.com/undokids/undokids/pkg/httpx"
)

type user struct {
	ID           string
	Email        string
	PasswordHash string
}

// Server implements the subset of the auth contract this system consumes:
// password grant, logout, and the elevated user admin endpoints.
type Server struct {
	secret     []byte
	serviceKey string
	tokenTTL   time.Duration

	mu      sync.Mutex
	byEmail map[string]*user
	byID    map[string]*user
	revoked map[string]struct{}
}

func New(secret []byte, serviceKey string) *Server {
	return &Server{
		secret:     secret,
		serviceKey: serviceKey,
		tokenTTL:   time.Hour,
		byEmail:    make(map[string]*user),
		byID:       make(map[string]*user),
		revoked:    make(map[string]struct{}),
	}
}

// Handler returns the service's HTTP surface.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", s.handleToken)
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.HandleFunc("POST /admin/users", s.requireServiceKey(s.handleCreateUser))
	mux.HandleFunc("PUT /admin/users/{id}", s.requireServiceKey(s.handleUpdateUser))
	mux.HandleFunc("DELETE /admin/users/{id}", s.requireServiceKey(s.handleDeleteUser))
	return mux
}

// Seed registers a user directly, for tests and bootstrap scripts.
func (s *Server) Seed(email, password string) (string, error) {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u := &user{ID: uuid.NewString(), Email: email, PasswordHash: hash}
	s.byEmail[email] = u
	s.byID[u.ID] = u
	return u.ID, nil
}

func (s *Server) requireServiceKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token != s.serviceKey {
			httpx.WriteError(w, http.StatusUnauthorized, "invalid service role key")
			return
		}
		next(w, r)
	}
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("grant_type") != "password" {
		httpx.WriteError(w, http.StatusBadRequest, "unsupported grant_type")
		return
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	u, ok := s.byEmail[req.Email]
	s.mu.Unlock()
	if !ok || cryptox.VerifyPassword(req.Password, u.PasswordHash) != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid login credentials")
		return
	}

	expires := time.Now().Add(s.tokenTTL)
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"exp":   jwt.NewNumericDate(expires),
		"iat":   jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "failed to sign token")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   int(s.tokenTTL.Seconds()),
		"user":         map[string]string{"id": u.ID, "email": u.Email},
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

	s.mu.Lock()
	s.revoked[token] = struct{}{}
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[req.Email]; exists {
		httpx.WriteError(w, http.StatusUnprocessableEntity, "email address already registered")
		return
	}

	u := &user{ID: uuid.NewString(), Email: req.Email, PasswordHash: hash}
	s.byEmail[req.Email] = u
	s.byID[u.ID] = u

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"id": u.ID, "email": u.Email})
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[r.PathValue("id")]
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "user not found")
		return
	}

	if req.Email != "" && req.Email != u.Email {
		if _, exists := s.byEmail[req.Email]; exists {
			httpx.WriteError(w, http.StatusUnprocessableEntity, "email address already registered")
			return
		}
		delete(s.byEmail, u.Email)
		u.Email = req.Email
		s.byEmail[u.Email] = u
	}
	if req.Password != "" {
		hash, err := cryptox.HashPassword(req.Password)
		if err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "failed to hash password")
			return
		}
		u.PasswordHash = hash
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"id": u.ID, "email": u.Email})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[r.PathValue("id")]
	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "user not found")
		return
	}
	delete(s.byEmail, u.Email)
	delete(s.byID, u.ID)

	w.WriteHeader(http.StatusNoContent)
}
