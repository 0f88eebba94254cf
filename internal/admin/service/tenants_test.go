package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/undokids/undokids/internal/admin/domain"
)

func TestTenantSlugValidation(t *testing.T) {
	t.Parallel()

	svc := &TenantService{Store: newTestStore(t), Blob: newFakeBlob()}
	ctx := context.Background()

	for _, slug := range []string{"UPPER", "under_score", "spa ce", "-lead", "trail-", "日本語"} {
		_, err := svc.Create(ctx, TenantInput{Slug: slug, Name: "S"})
		require.ErrorIs(t, err, ErrSlugInvalid, "slug %q", slug)
	}

	_, err := svc.Create(ctx, TenantInput{Slug: "oak-park-2", Name: "Oak Park"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, TenantInput{Slug: "oak-park-2", Name: "Duplicate"})
	require.ErrorIs(t, err, ErrSlugTaken)
}

func TestUploadQR(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	fb := newFakeBlob()
	svc := &TenantService{Store: st, Blob: fb}
	ctx := context.Background()

	tn := seedTenant(t, st, "shinjuku")

	t.Run("oversize rejected before storage", func(t *testing.T) {
		big := bytes.Repeat([]byte{0x42}, MaxQRImageSize+1)
		_, err := svc.UploadQR(ctx, tn.ID, domain.QRKindMember, "image/png", big)
		require.ErrorIs(t, err, ErrQRTooLarge)
		require.EqualError(t, err, "ファイルサイズは5MB以下にしてください")
		require.Empty(t, fb.uploads)
	})

	t.Run("forbidden content type rejected before storage", func(t *testing.T) {
		_, err := svc.UploadQR(ctx, tn.ID, domain.QRKindMember, "image/svg+xml", []byte("<svg/>"))
		require.ErrorIs(t, err, ErrQRTypeForbidden)
		require.Empty(t, fb.uploads)
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		_, err := svc.UploadQR(ctx, tn.ID, domain.QRKind("poster"), "image/png", []byte("x"))
		require.ErrorIs(t, err, ErrQRKindInvalid)
	})

	t.Run("upload stores url on the tenant", func(t *testing.T) {
		url, err := svc.UploadQR(ctx, tn.ID, domain.QRKindMember, "image/png", []byte("png-bytes"))
		require.NoError(t, err)
		require.Contains(t, url, "qr-member")

		got, err := svc.Get(ctx, tn.ID)
		require.NoError(t, err)
		require.Equal(t, url, got.QRMemberURL)
		require.Empty(t, got.QRStaffURL)
	})

	t.Run("re-upload overwrites the same key", func(t *testing.T) {
		first, err := svc.UploadQR(ctx, tn.ID, domain.QRKindStaff, "image/png", []byte("v1"))
		require.NoError(t, err)
		second, err := svc.UploadQR(ctx, tn.ID, domain.QRKindStaff, "image/jpeg", []byte("v2"))
		require.NoError(t, err)
		require.Equal(t, first, second)

		key := "tenants/" + tn.ID + "/qr-staff"
		require.Equal(t, []byte("v2"), fb.uploads[key])
		require.Equal(t, "image/jpeg", fb.types[key])
	})

	t.Run("missing tenant", func(t *testing.T) {
		_, err := svc.UploadQR(ctx, "absent", domain.QRKindMember, "image/png", []byte("x"))
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMeasurementDerivesTenantFromChild(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	children := &ChildService{Store: st}
	measurements := &MeasurementService{Store: st}
	ctx := context.Background()

	tn := seedTenant(t, st, "meguro")

	child, err := children.Create(ctx, ChildInput{
		TenantID:  tn.ID,
		Name:      "Hana",
		Birthdate: mustDate(t, "2019-04-01"),
		Gender:    "female",
	})
	require.NoError(t, err)

	m, err := measurements.Create(ctx, MeasurementInput{
		ChildID:    child.ID,
		MeasuredAt: mustDate(t, "2026-07-15"),
		Grip:       9.5,
		SprintTime: 4.2,
		Jump:       95,
		ThrowDist:  5.5,
		SideSteps:  22,
	})
	require.NoError(t, err)
	require.Equal(t, tn.ID, m.TenantID)

	results := &ResultService{Store: st}
	r, err := results.Create(ctx, ResultInput{MeasurementID: m.ID, TotalScore: 72, AgeRank: "B"})
	require.NoError(t, err)

	_, err = results.Create(ctx, ResultInput{MeasurementID: m.ID, TotalScore: 80, AgeRank: "A"})
	require.ErrorIs(t, err, ErrResultExists)

	got, err := results.GetByMeasurement(ctx, m.ID)
	require.NoError(t, err)
	require.Equal(t, r.ID, got.ID)
}
