package sqlite

import (
	"context"
	"time"

	"github.com/undokids/undokids/internal/admin/domain"
)

type measurementsRepo struct {
	q querier
}

const measurementColumns = `id, child_id, tenant_id, measured_at, grip, sprint_time, jump,
	throw_dist, side_steps, created_at, updated_at`

func scanMeasurement(row interface{ Scan(...any) error }) (domain.Measurement, error) {
	var m domain.Measurement
	err := row.Scan(&m.ID, &m.ChildID, &m.TenantID, &m.MeasuredAt, &m.Grip, &m.SprintTime,
		&m.Jump, &m.ThrowDist, &m.SideSteps, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func (r *measurementsRepo) GetMeasurement(ctx context.Context, id string) (domain.Measurement, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+measurementColumns+` FROM measurements WHERE id = ?`, id)
	m, err := scanMeasurement(row)
	if err != nil {
		return domain.Measurement{}, mapNotFound(err)
	}
	return m, nil
}

func (r *measurementsRepo) ListMeasurements(ctx context.Context, childID, tenantID string) ([]domain.Measurement, error) {
	query := `SELECT ` + measurementColumns + ` FROM measurements WHERE 1 = 1`
	var args []any
	if childID != "" {
		query += ` AND child_id = ?`
		args = append(args, childID)
	}
	if tenantID != "" {
		query += ` AND tenant_id = ?`
		args = append(args, tenantID)
	}
	query += ` ORDER BY measured_at DESC, id DESC`

	return r.list(ctx, query, args...)
}

func (r *measurementsRepo) ListMeasurementsSince(ctx context.Context, tenantID string, since time.Time) ([]domain.Measurement, error) {
	return r.list(ctx,
		`SELECT `+measurementColumns+` FROM measurements
		 WHERE tenant_id = ? AND measured_at >= ?
		 ORDER BY measured_at DESC, id DESC`,
		tenantID, since.UTC())
}

func (r *measurementsRepo) list(ctx context.Context, query string, args ...any) ([]domain.Measurement, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Measurement
	for rows.Next() {
		m, err := scanMeasurement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *measurementsRepo) CreateMeasurement(ctx context.Context, m domain.Measurement) error {
	ts := now()
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO measurements (id, child_id, tenant_id, measured_at, grip, sprint_time,
		  jump, throw_dist, side_steps, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ChildID, m.TenantID, m.MeasuredAt.UTC(), m.Grip, m.SprintTime,
		m.Jump, m.ThrowDist, m.SideSteps, ts, ts)
	return mapConstraint(err)
}

func (r *measurementsRepo) UpdateMeasurement(ctx context.Context, m domain.Measurement) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE measurements SET measured_at = ?, grip = ?, sprint_time = ?, jump = ?,
		  throw_dist = ?, side_steps = ?, updated_at = ?
		 WHERE id = ?`,
		m.MeasuredAt.UTC(), m.Grip, m.SprintTime, m.Jump, m.ThrowDist, m.SideSteps, now(), m.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *measurementsRepo) DeleteMeasurement(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM measurements WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
