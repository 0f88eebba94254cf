package sqlite

import (
	"context"

	"github.com/undokids/undokids/internal/admin/domain"
)

type childrenRepo struct {
	q querier
}

const childColumns = `id, tenant_id, name, kana, birthdate, gender, created_at, updated_at`

func scanChild(row interface{ Scan(...any) error }) (domain.Child, error) {
	var c domain.Child
	err := row.Scan(&c.ID, &c.TenantID, &c.Name, &c.Kana, &c.Birthdate, &c.Gender,
		&c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *childrenRepo) GetChild(ctx context.Context, id string) (domain.Child, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+childColumns+` FROM children WHERE id = ?`, id)
	c, err := scanChild(row)
	if err != nil {
		return domain.Child{}, mapNotFound(err)
	}
	return c, nil
}

func (r *childrenRepo) ListChildren(ctx context.Context, tenantID string) ([]domain.Child, error) {
	query := `SELECT ` + childColumns + ` FROM children`
	var args []any
	if tenantID != "" {
		query += ` WHERE tenant_id = ?`
		args = append(args, tenantID)
	}
	query += ` ORDER BY kana, name, id`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Child
	for rows.Next() {
		c, err := scanChild(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *childrenRepo) CreateChild(ctx context.Context, c domain.Child) error {
	ts := now()
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO children (id, tenant_id, name, kana, birthdate, gender, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.TenantID, c.Name, c.Kana, c.Birthdate.UTC(), c.Gender, ts, ts)
	return mapConstraint(err)
}

func (r *childrenRepo) UpdateChild(ctx context.Context, c domain.Child) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE children SET name = ?, kana = ?, birthdate = ?, gender = ?, updated_at = ?
		 WHERE id = ?`,
		c.Name, c.Kana, c.Birthdate.UTC(), c.Gender, now(), c.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *childrenRepo) DeleteChild(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM children WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
