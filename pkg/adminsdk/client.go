// Package adminsdk is the Go client for the admin service. It carries
// the session cookie, mirrors the server's sign-in flow and provides the
// tenant page guard that protects store-scoped navigation.
package adminsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("adminsdk: invalid credentials")
	ErrUnauthenticated    = errors.New("adminsdk: not signed in")
	ErrTenantNotFound     = errors.New("adminsdk: tenant not found")
)

// Client is a cookie-carrying client for one admin service instance.
// Safe for concurrent use.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client with its own cookie jar. Redirects are not
// followed; the SDK reads the Location targets itself.
func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Login signs in with email and password. On success the session cookie
// lands in the jar and the server's redirect target is returned.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	form := url.Values{"email": {email}, "password": {password}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/admin/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer drain(resp)

	switch {
	case resp.StatusCode == http.StatusSeeOther:
		return resp.Header.Get("Location"), nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest:
		return "", ErrInvalidCredentials
	default:
		return "", fmt.Errorf("adminsdk: login: unexpected status %d", resp.StatusCode)
	}
}

// Logout revokes the session server-side and drops the cookie.
func (c *Client) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/admin/logout", nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusSeeOther && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("adminsdk: logout: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Me fetches the signed-in profile.
func (c *Client) Me(ctx context.Context) (Profile, error) {
	var p Profile
	err := c.getJSON(ctx, "/admin/api/me", &p, map[int]error{
		http.StatusUnauthorized: ErrUnauthenticated,
	})
	return p, err
}

// TenantBySlug resolves a store slug to its public record.
func (c *Client) TenantBySlug(ctx context.Context, slug string) (Tenant, error) {
	var t Tenant
	err := c.getJSON(ctx, "/store/"+url.PathEscape(slug), &t, map[int]error{
		http.StatusNotFound: ErrTenantNotFound,
	})
	return t, err
}

// ChangePassword changes the signed-in account's password after
// re-authenticating with the current one.
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	return c.postJSON(ctx, "/admin/api/account/password", map[string]string{
		"current_password": currentPassword,
		"new_password":     newPassword,
	})
}

// ChangeEmail moves the signed-in account to a new address.
func (c *Client) ChangeEmail(ctx context.Context, currentPassword, newEmail string) error {
	return c.postJSON(ctx, "/admin/api/account/email", map[string]string{
		"current_password": currentPassword,
		"new_email":        newEmail,
	})
}

// Health hits the liveness probe.
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	var h HealthResponse
	err := c.getJSON(ctx, "/livez", &h, nil)
	return h, err
}

func (c *Client) getJSON(ctx context.Context, path string, dst any, statusErrs map[int]error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer drain(resp)

	if mapped, ok := statusErrs[resp.StatusCode]; ok {
		return mapped
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("adminsdk: GET %s: unexpected status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

func (c *Client) postJSON(ctx context.Context, path string, body any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer drain(resp)

	switch {
	case resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthenticated
	default:
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("adminsdk: POST %s: %s", path, apiErr.Error)
		}
		return fmt.Errorf("adminsdk: POST %s: unexpected status %d", path, resp.StatusCode)
	}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
