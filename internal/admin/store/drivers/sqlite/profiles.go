package sqlite

import (
	"context"
	"database/sql"

	"github.com/undokids/undokids/internal/admin/domain"
	"github.com/undokids/undokids/internal/admin/store"
)

type profilesRepo struct {
	q querier
}

const profileColumns = `id, email, name, role, partner_id, store_id, created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (domain.Profile, error) {
	var p domain.Profile
	var role string
	var partnerID, storeID sql.NullString
	err := row.Scan(&p.ID, &p.Email, &p.Name, &role, &partnerID, &storeID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Profile{}, err
	}
	p.Role = domain.Role(role)
	p.PartnerID = mapNullStringPtr(partnerID)
	p.StoreID = mapNullStringPtr(storeID)
	return p, nil
}

func (r *profilesRepo) GetProfile(ctx context.Context, id string) (domain.Profile, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
	p, err := scanProfile(row)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}
	return p, nil
}

func (r *profilesRepo) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *profilesRepo) CreateProfile(ctx context.Context, p domain.Profile) error {
	ts := now()
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO profiles (id, email, name, role, partner_id, store_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Email, p.Name, string(p.Role),
		mapOptionalString(p.PartnerID), mapOptionalString(p.StoreID), ts, ts)
	return mapConstraint(err)
}

func (r *profilesRepo) UpdateProfile(ctx context.Context, p domain.Profile) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE profiles SET name = ?, role = ?, partner_id = ?, store_id = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, string(p.Role),
		mapOptionalString(p.PartnerID), mapOptionalString(p.StoreID), now(), p.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *profilesRepo) UpdateProfileEmail(ctx context.Context, id, email string) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE profiles SET email = ?, updated_at = ? WHERE id = ?`, email, now(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *profilesRepo) DeleteProfile(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// requireRow maps zero-row updates/deletes onto ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
