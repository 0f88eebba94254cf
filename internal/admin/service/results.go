package service

import (
	"context"
	"errors"

	"github.com/undokids/undokids/internal/admin/domain"
	"github.com/undokids/undokids/internal/admin/store"
	"github.com/undokids/undokids/pkg/idx"
)

var (
	ErrMeasurementRequired = errors.New("measurement is required")
	ErrScoreOutOfRange     = errors.New("total_score must be between 0 and 100")
	ErrRankInvalid         = errors.New("age_rank must be one of A, B, C, D, E")
	ErrResultExists        = errors.New("a result already exists for this measurement")
)

// ResultService attaches scored outcomes to measurements. At most one
// result exists per measurement; the unique index enforces it and the
// service surfaces the conflict.
type ResultService struct {
	Store store.Store
}

type ResultInput struct {
	MeasurementID string
	TotalScore    int
	AgeRank       string
	Comment       string
}

func (in ResultInput) validate() error {
	if in.MeasurementID == "" {
		return ErrMeasurementRequired
	}
	if in.TotalScore < 0 || in.TotalScore > 100 {
		return ErrScoreOutOfRange
	}
	switch in.AgeRank {
	case "A", "B", "C", "D", "E":
	default:
		return ErrRankInvalid
	}
	return nil
}

func (s *ResultService) Create(ctx context.Context, in ResultInput) (domain.Result, error) {
	if err := in.validate(); err != nil {
		return domain.Result{}, err
	}

	if _, err := s.Store.Measurements().GetMeasurement(ctx, in.MeasurementID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Result{}, ErrNotFound
		}
		return domain.Result{}, err
	}

	now := touch()
	r := domain.Result{
		ID:            idx.New().String(),
		MeasurementID: in.MeasurementID,
		TotalScore:    in.TotalScore,
		AgeRank:       in.AgeRank,
		Comment:       in.Comment,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Store.Results().CreateResult(ctx, r); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Result{}, ErrResultExists
		}
		return domain.Result{}, err
	}
	return r, nil
}

func (s *ResultService) Get(ctx context.Context, id string) (domain.Result, error) {
	r, err := s.Store.Results().GetResult(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Result{}, ErrNotFound
	}
	return r, err
}

// GetByMeasurement returns the result attached to a measurement.
func (s *ResultService) GetByMeasurement(ctx context.Context, measurementID string) (domain.Result, error) {
	r, err := s.Store.Results().GetResultByMeasurement(ctx, measurementID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Result{}, ErrNotFound
	}
	return r, err
}

func (s *ResultService) Update(ctx context.Context, id string, in ResultInput) (domain.Result, error) {
	if err := in.validate(); err != nil {
		return domain.Result{}, err
	}
	r, err := s.Get(ctx, id)
	if err != nil {
		return domain.Result{}, err
	}
	r.TotalScore = in.TotalScore
	r.AgeRank = in.AgeRank
	r.Comment = in.Comment
	r.UpdatedAt = touch()
	if err := s.Store.Results().UpdateResult(ctx, r); err != nil {
		return domain.Result{}, err
	}
	return r, nil
}

func (s *ResultService) Delete(ctx context.Context, id string) error {
	err := s.Store.Results().DeleteResult(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
