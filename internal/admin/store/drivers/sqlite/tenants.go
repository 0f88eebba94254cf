package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/undokids/undokids/internal/admin/domain"
)

type tenantsRepo struct {
	q querier
}

const tenantColumns = `id, slug, name, partner_id, logo_url, theme_color, contact_email,
	qr_member_url, qr_staff_url, created_at, updated_at`

func scanTenant(row interface{ Scan(...any) error }) (domain.Tenant, error) {
	var t domain.Tenant
	var partnerID sql.NullString
	err := row.Scan(&t.ID, &t.Slug, &t.Name, &partnerID, &t.LogoURL, &t.ThemeColor,
		&t.ContactEmail, &t.QRMemberURL, &t.QRStaffURL, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Tenant{}, err
	}
	t.PartnerID = mapNullStringPtr(partnerID)
	return t, nil
}

func (r *tenantsRepo) GetTenant(ctx context.Context, id string) (domain.Tenant, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = ?`, id)
	t, err := scanTenant(row)
	if err != nil {
		return domain.Tenant{}, mapNotFound(err)
	}
	return t, nil
}

func (r *tenantsRepo) GetTenantBySlug(ctx context.Context, slug string) (domain.Tenant, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE slug = ?`, slug)
	t, err := scanTenant(row)
	if err != nil {
		return domain.Tenant{}, mapNotFound(err)
	}
	return t, nil
}

func (r *tenantsRepo) ListTenants(ctx context.Context, partnerID string) ([]domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants`
	var args []any
	if partnerID != "" {
		query += ` WHERE partner_id = ?`
		args = append(args, partnerID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *tenantsRepo) CreateTenant(ctx context.Context, t domain.Tenant) error {
	ts := now()
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO tenants (id, slug, name, partner_id, logo_url, theme_color, contact_email,
		  qr_member_url, qr_staff_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Slug, t.Name, mapOptionalString(t.PartnerID),
		t.LogoURL, t.ThemeColor, t.ContactEmail, t.QRMemberURL, t.QRStaffURL, ts, ts)
	return mapConstraint(err)
}

func (r *tenantsRepo) UpdateTenant(ctx context.Context, t domain.Tenant) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE tenants SET slug = ?, name = ?, partner_id = ?, logo_url = ?,
		  theme_color = ?, contact_email = ?, updated_at = ?
		 WHERE id = ?`,
		t.Slug, t.Name, mapOptionalString(t.PartnerID),
		t.LogoURL, t.ThemeColor, t.ContactEmail, now(), t.ID)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRow(res)
}

func (r *tenantsRepo) DeleteTenant(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM tenants WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *tenantsRepo) SetQRImage(ctx context.Context, id string, kind domain.QRKind, url string) error {
	var column string
	switch kind {
	case domain.QRKindMember:
		column = "qr_member_url"
	case domain.QRKindStaff:
		column = "qr_staff_url"
	default:
		return fmt.Errorf("unknown qr kind %q", kind)
	}

	res, err := r.q.ExecContext(ctx,
		`UPDATE tenants SET `+column+` = ?, updated_at = ? WHERE id = ?`, url, now(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
