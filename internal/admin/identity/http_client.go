package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/undokids/undokids/internal/admin/domain"
)

// HTTPClient talks to the hosted auth service's REST API. The same type
// serves both surfaces: session calls authenticate with the caller's
// token, admin calls with the service-role key.
type HTTPClient struct {
	BaseURL    string
	APIKey     string // service-role key for Admin calls, anon key otherwise
	HTTPClient *http.Client
}

func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	User        struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (c *HTTPClient) SignInWithPassword(ctx context.Context, email, password string) (SignInResult, error) {
	body := map[string]string{"email": email, "password": password}

	var resp tokenResponse
	if _, err := c.do(ctx, http.MethodPost, "/token?grant_type=password", c.APIKey, body, &resp); err != nil {
		if isStatus(err, http.StatusBadRequest) || isStatus(err, http.StatusUnauthorized) {
			return SignInResult{}, ErrInvalidCredentials
		}
		return SignInResult{}, err
	}

	return SignInResult{
		AccessToken: resp.AccessToken,
		Session: domain.Session{
			UserID:    resp.User.ID,
			Email:     resp.User.Email,
			ExpiresAt: time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
		},
	}, nil
}

func (c *HTTPClient) SignOut(ctx context.Context, accessToken string) error {
	_, err := c.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
	return err
}

func (c *HTTPClient) Reauthenticate(ctx context.Context, email, password string) error {
	_, err := c.SignInWithPassword(ctx, email, password)
	return err
}

func (c *HTTPClient) AdminCreateUser(ctx context.Context, email, password string) (domain.Identity, error) {
	body := map[string]any{
		"email":         email,
		"password":      password,
		"email_confirm": true,
	}

	var resp struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/admin/users", c.APIKey, body, &resp); err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{ID: resp.ID, Email: resp.Email}, nil
}

func (c *HTTPClient) AdminUpdateUser(ctx context.Context, id string, upd UserUpdate) error {
	body := map[string]string{}
	if upd.Email != nil {
		body["email"] = *upd.Email
	}
	if upd.Password != nil {
		body["password"] = *upd.Password
	}

	if _, err := c.do(ctx, http.MethodPut, "/admin/users/"+id, c.APIKey, body, nil); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

func (c *HTTPClient) AdminDeleteUser(ctx context.Context, id string) error {
	if _, err := c.do(ctx, http.MethodDelete, "/admin/users/"+id, c.APIKey, nil, nil); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// isStatus reports whether err is an *UpstreamError carrying the status.
func isStatus(err error, status int) bool {
	var ue *UpstreamError
	return errors.As(err, &ue) && ue.Status == status
}

// do performs one request and decodes the response. Every non-2xx response
// becomes an *UpstreamError with the upstream message preserved; callers
// map the statuses they care about onto sentinel errors.
func (c *HTTPClient) do(ctx context.Context, method, path, bearer string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("identity: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, &UpstreamError{
			Status:  resp.StatusCode,
			Message: readErrorMessage(resp.Body),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("identity: decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func readErrorMessage(body io.Reader) string {
	var e struct {
		Error   string `json:"error"`
		Message string `json:"msg"`
	}
	raw, _ := io.ReadAll(io.LimitReader(body, 4096))
	if err := json.Unmarshal(raw, &e); err == nil {
		if e.Error != "" {
			return e.Error
		}
		if e.Message != "" {
			return e.Message
		}
	}
	return strings.TrimSpace(string(raw))
}
