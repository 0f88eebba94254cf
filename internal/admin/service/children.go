package service

import (
	"context"
	"errors"
	"time"

	"github.com/undokids/undokids/internal/admin/domain"
	"github.com/undokids/undokids/internal/admin/store"
	"github.com/undokids/undokids/pkg/idx"
)

var (
	ErrTenantRequired    = errors.New("tenant is required")
	ErrBirthdateRequired = errors.New("birthdate is required")
	ErrGenderInvalid     = errors.New("gender must be male, female or empty")
)

// ChildService manages the measured participants of one or more stores.
type ChildService struct {
	Store store.Store
}

type ChildInput struct {
	TenantID  string
	Name      string
	Kana      string
	Birthdate time.Time
	Gender    string
}

func (in ChildInput) validate() error {
	if in.TenantID == "" {
		return ErrTenantRequired
	}
	if in.Name == "" {
		return ErrNameRequired
	}
	if in.Birthdate.IsZero() {
		return ErrBirthdateRequired
	}
	switch in.Gender {
	case "", "male", "female":
	default:
		return ErrGenderInvalid
	}
	return nil
}

func (s *ChildService) Create(ctx context.Context, in ChildInput) (domain.Child, error) {
	if err := in.validate(); err != nil {
		return domain.Child{}, err
	}
	now := touch()
	c := domain.Child{
		ID:        idx.New().String(),
		TenantID:  in.TenantID,
		Name:      in.Name,
		Kana:      in.Kana,
		Birthdate: in.Birthdate,
		Gender:    in.Gender,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Children().CreateChild(ctx, c); err != nil {
		return domain.Child{}, err
	}
	return c, nil
}

func (s *ChildService) Get(ctx context.Context, id string) (domain.Child, error) {
	c, err := s.Store.Children().GetChild(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Child{}, ErrNotFound
	}
	return c, err
}

// List returns children, scoped to one tenant when tenantID is set.
func (s *ChildService) List(ctx context.Context, tenantID string) ([]domain.Child, error) {
	return s.Store.Children().ListChildren(ctx, tenantID)
}

func (s *ChildService) Update(ctx context.Context, id string, in ChildInput) (domain.Child, error) {
	if err := in.validate(); err != nil {
		return domain.Child{}, err
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return domain.Child{}, err
	}
	c.TenantID = in.TenantID
	c.Name = in.Name
	c.Kana = in.Kana
	c.Birthdate = in.Birthdate
	c.Gender = in.Gender
	c.UpdatedAt = touch()
	if err := s.Store.Children().UpdateChild(ctx, c); err != nil {
		return domain.Child{}, err
	}
	return c, nil
}

func (s *ChildService) Delete(ctx context.Context, id string) error {
	err := s.Store.Children().DeleteChild(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
