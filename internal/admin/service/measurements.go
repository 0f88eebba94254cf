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
	ErrChildRequired      = errors.New("child is required")
	ErrMeasuredAtRequired = errors.New("measured_at is required")
	ErrValueNegative      = errors.New("measurement values must not be negative")
)

// MeasurementService records diagnostic sessions. Values are stored raw;
// scoring lives in ResultService.
type MeasurementService struct {
	Store store.Store
}

type MeasurementInput struct {
	ChildID    string
	MeasuredAt time.Time
	Grip       float64
	SprintTime float64
	Jump       float64
	ThrowDist  float64
	SideSteps  int
}

func (in MeasurementInput) validate() error {
	if in.ChildID == "" {
		return ErrChildRequired
	}
	if in.MeasuredAt.IsZero() {
		return ErrMeasuredAtRequired
	}
	if in.Grip < 0 || in.SprintTime < 0 || in.Jump < 0 || in.ThrowDist < 0 || in.SideSteps < 0 {
		return ErrValueNegative
	}
	return nil
}

// Create records a measurement. The tenant is derived from the child, not
// taken from the caller, so a session can never be filed under the wrong
// store.
func (s *MeasurementService) Create(ctx context.Context, in MeasurementInput) (domain.Measurement, error) {
	if err := in.validate(); err != nil {
		return domain.Measurement{}, err
	}

	child, err := s.Store.Children().GetChild(ctx, in.ChildID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Measurement{}, ErrNotFound
		}
		return domain.Measurement{}, err
	}

	now := touch()
	m := domain.Measurement{
		ID:         idx.New().String(),
		ChildID:    child.ID,
		TenantID:   child.TenantID,
		MeasuredAt: in.MeasuredAt,
		Grip:       in.Grip,
		SprintTime: in.SprintTime,
		Jump:       in.Jump,
		ThrowDist:  in.ThrowDist,
		SideSteps:  in.SideSteps,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Store.Measurements().CreateMeasurement(ctx, m); err != nil {
		return domain.Measurement{}, err
	}
	return m, nil
}

func (s *MeasurementService) Get(ctx context.Context, id string) (domain.Measurement, error) {
	m, err := s.Store.Measurements().GetMeasurement(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Measurement{}, ErrNotFound
	}
	return m, err
}

// List filters by child and/or tenant; empty strings mean any.
func (s *MeasurementService) List(ctx context.Context, childID, tenantID string) ([]domain.Measurement, error) {
	return s.Store.Measurements().ListMeasurements(ctx, childID, tenantID)
}

// ListSince backs the dashboard period reports.
func (s *MeasurementService) ListSince(ctx context.Context, tenantID string, since time.Time) ([]domain.Measurement, error) {
	return s.Store.Measurements().ListMeasurementsSince(ctx, tenantID, since)
}

func (s *MeasurementService) Update(ctx context.Context, id string, in MeasurementInput) (domain.Measurement, error) {
	if err := in.validate(); err != nil {
		return domain.Measurement{}, err
	}
	m, err := s.Get(ctx, id)
	if err != nil {
		return domain.Measurement{}, err
	}
	// The child link is fixed at creation; only the values and the
	// session time are editable.
	m.MeasuredAt = in.MeasuredAt
	m.Grip = in.Grip
	m.SprintTime = in.SprintTime
	m.Jump = in.Jump
	m.ThrowDist = in.ThrowDist
	m.SideSteps = in.SideSteps
	m.UpdatedAt = touch()
	if err := s.Store.Measurements().UpdateMeasurement(ctx, m); err != nil {
		return domain.Measurement{}, err
	}
	return m, nil
}

func (s *MeasurementService) Delete(ctx context.Context, id string) error {
	err := s.Store.Measurements().DeleteMeasurement(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
