package domain

import "errors"

var (
	ErrPartnerIDRequired  = errors.New("partner_id is required for partner role")
	ErrStoreIDRequired    = errors.New("store_id is required for store role")
	ErrMasterAssociations = errors.New("partner_id and store_id must be empty for master role")
	ErrUnknownRole        = errors.New("role must be one of master, partner, store")
)
