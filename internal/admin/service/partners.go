package service

import (
	"context"
	"errors"
	"net/mail"

	"github.com/undokids/undokids/internal/admin/domain"
	"github.com/undokids/undokids/internal/admin/store"
	"github.com/undokids/undokids/pkg/idx"
)

// PartnerService manages business partners. Deleting a partner does not
// cascade to its stores; the database keeps the stores and nulls nothing,
// so the caller must reassign or delete stores first.
type PartnerService struct {
	Store store.Store
}

type PartnerInput struct {
	Name  string
	Email string
}

func (in PartnerInput) validate() error {
	if in.Name == "" {
		return ErrNameRequired
	}
	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			return ErrEmailInvalid
		}
	}
	return nil
}

func (s *PartnerService) Create(ctx context.Context, in PartnerInput) (domain.Partner, error) {
	if err := in.validate(); err != nil {
		return domain.Partner{}, err
	}
	now := touch()
	p := domain.Partner{
		ID:        idx.New().String(),
		Name:      in.Name,
		Email:     in.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.Partners().CreatePartner(ctx, p); err != nil {
		return domain.Partner{}, err
	}
	return p, nil
}

func (s *PartnerService) Get(ctx context.Context, id string) (domain.Partner, error) {
	p, err := s.Store.Partners().GetPartner(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Partner{}, ErrNotFound
	}
	return p, err
}

func (s *PartnerService) List(ctx context.Context) ([]domain.Partner, error) {
	return s.Store.Partners().ListPartners(ctx)
}

func (s *PartnerService) Update(ctx context.Context, id string, in PartnerInput) (domain.Partner, error) {
	if err := in.validate(); err != nil {
		return domain.Partner{}, err
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return domain.Partner{}, err
	}
	p.Name = in.Name
	p.Email = in.Email
	p.UpdatedAt = touch()
	if err := s.Store.Partners().UpdatePartner(ctx, p); err != nil {
		return domain.Partner{}, err
	}
	return p, nil
}

func (s *PartnerService) Delete(ctx context.Context, id string) error {
	err := s.Store.Partners().DeletePartner(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
