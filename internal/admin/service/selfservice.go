package service

import (
	"context"
	"errors"
	"net/mail"
	"time"

	"github.com/undokids/undokids/internal/admin/identity"
	"github.com/undokids/undokids/internal/admin/store"
)

var (
	ErrWrongCurrentPassword = errors.New("current password is incorrect")
	ErrSameEmail            = errors.New("現在と同じメールアドレスです")
)

// SelfService covers the credential changes a signed-in user makes to
// their own account. Every change re-authenticates with the current
// password first; possession of a session cookie is not enough.
type SelfService struct {
	Store    store.Store
	Identity identity.Client
	Admin    identity.Admin
}

// ChangePassword swaps the caller's password after verifying the old one.
func (s *SelfService) ChangePassword(ctx context.Context, userID, email, currentPassword, newPassword string) error {
	if newPassword == "" {
		return ErrPasswordRequired
	}
	if err := s.reauth(ctx, email, currentPassword); err != nil {
		return err
	}
	return s.Admin.AdminUpdateUser(ctx, userID, identity.UserUpdate{Password: &newPassword})
}

// ChangeEmail moves the caller to a new address. The identity record is
// the source of truth; the profile email is updated afterwards so lists
// stay in step.
func (s *SelfService) ChangeEmail(ctx context.Context, userID, currentEmail, currentPassword, newEmail string) error {
	if newEmail == "" {
		return ErrEmailRequired
	}
	if _, err := mail.ParseAddress(newEmail); err != nil {
		return ErrEmailInvalid
	}
	if newEmail == currentEmail {
		return ErrSameEmail
	}
	if err := s.reauth(ctx, currentEmail, currentPassword); err != nil {
		return err
	}
	if err := s.Admin.AdminUpdateUser(ctx, userID, identity.UserUpdate{Email: &newEmail}); err != nil {
		return err
	}
	return s.Store.Profiles().UpdateProfileEmail(ctx, userID, newEmail)
}

func (s *SelfService) reauth(ctx context.Context, email, password string) error {
	err := s.Identity.Reauthenticate(ctx, email, password)
	if errors.Is(err, identity.ErrInvalidCredentials) {
		return ErrWrongCurrentPassword
	}
	return err
}

// touch is a small helper some services share for update timestamps.
func touch() time.Time { return time.Now().UTC() }
