package sqlite

import (
	"context"

	"github.com/undokids/undokids/internal/admin/domain"
)

type resultsRepo struct {
	q querier
}

const resultColumns = `id, measurement_id, total_score, age_rank, comment, created_at, updated_at`

func scanResult(row interface{ Scan(...any) error }) (domain.Result, error) {
	var res domain.Result
	err := row.Scan(&res.ID, &res.MeasurementID, &res.TotalScore, &res.AgeRank, &res.Comment,
		&res.CreatedAt, &res.UpdatedAt)
	return res, err
}

func (r *resultsRepo) GetResult(ctx context.Context, id string) (domain.Result, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+resultColumns+` FROM results WHERE id = ?`, id)
	res, err := scanResult(row)
	if err != nil {
		return domain.Result{}, mapNotFound(err)
	}
	return res, nil
}

func (r *resultsRepo) GetResultByMeasurement(ctx context.Context, measurementID string) (domain.Result, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+resultColumns+` FROM results WHERE measurement_id = ?`, measurementID)
	res, err := scanResult(row)
	if err != nil {
		return domain.Result{}, mapNotFound(err)
	}
	return res, nil
}

func (r *resultsRepo) CreateResult(ctx context.Context, res domain.Result) error {
	ts := now()
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO results (id, measurement_id, total_score, age_rank, comment, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.MeasurementID, res.TotalScore, res.AgeRank, res.Comment, ts, ts)
	return mapConstraint(err)
}

func (r *resultsRepo) UpdateResult(ctx context.Context, res domain.Result) error {
	out, err := r.q.ExecContext(ctx,
		`UPDATE results SET total_score = ?, age_rank = ?, comment = ?, updated_at = ?
		 WHERE id = ?`,
		res.TotalScore, res.AgeRank, res.Comment, now(), res.ID)
	if err != nil {
		return err
	}
	return requireRow(out)
}

func (r *resultsRepo) DeleteResult(ctx context.Context, id string) error {
	out, err := r.q.ExecContext(ctx, `DELETE FROM results WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(out)
}
