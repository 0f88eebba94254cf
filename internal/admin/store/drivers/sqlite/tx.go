package sqlite

import (
	"context"
	"database/sql"

	"github.com/undokids/undokids/internal/admin/store"
)

type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // caller commits/rollbacks; outer DB stays open

// Ping is a no-op for transactions. The connection is already established
// when the transaction is created.
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Profiles() store.Profiles         { return &profilesRepo{q: t.tx} }
func (t *txStore) Partners() store.Partners         { return &partnersRepo{q: t.tx} }
func (t *txStore) Tenants() store.Tenants           { return &tenantsRepo{q: t.tx} }
func (t *txStore) Children() store.Children         { return &childrenRepo{q: t.tx} }
func (t *txStore) Measurements() store.Measurements { return &measurementsRepo{q: t.tx} }
func (t *txStore) Results() store.Results           { return &resultsRepo{q: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil } // migrations run before any tx starts
