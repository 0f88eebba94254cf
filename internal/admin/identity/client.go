// Package identity wraps the hosted authentication service. Everything in
// here speaks the service's REST contract; nothing else in the codebase
// talks to it directly.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/undokids/undokids/internal/admin/domain"
)

var (
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	ErrUserNotFound       = errors.New("identity: user not found")
)

// UpstreamError preserves the status and message the hosted service
// returned, so handlers can propagate it to the caller.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("identity: upstream %d: %s", e.Status, e.Message)
}

// SignInResult is what a successful password grant returns.
type SignInResult struct {
	AccessToken string
	Session     domain.Session
}

// UserUpdate carries the mutable identity attributes. Nil fields are left
// untouched.
type UserUpdate struct {
	Email    *string
	Password *string
}

// Client is the session-facing surface of the hosted auth service.
type Client interface {
	// SignInWithPassword performs the password grant and returns the
	// issued session token.
	SignInWithPassword(ctx context.Context, email, password string) (SignInResult, error)

	// SignOut revokes the session behind the given access token.
	SignOut(ctx context.Context, accessToken string) error

	// Reauthenticate verifies the caller still knows their current
	// password. Used before sensitive self-service changes.
	Reauthenticate(ctx context.Context, email, password string) error
}

// Admin is the elevated (service-role) surface used by the account
// management endpoints.
type Admin interface {
	// AdminCreateUser creates an identity. The profile row is created by
	// the caller afterwards (two-phase).
	AdminCreateUser(ctx context.Context, email, password string) (domain.Identity, error)

	// AdminUpdateUser changes email and/or password of an identity.
	AdminUpdateUser(ctx context.Context, id string, upd UserUpdate) error

	// AdminDeleteUser destroys the identity. This is the authoritative
	// delete for an account.
	AdminDeleteUser(ctx context.Context, id string) error
}
