package repository

import (
	"context"

	"gorm.io/gorm"
)

// LockRepository PostgreSQL advisory locks
type LockRepository interface {
	// AdvisoryXactLock blocks until the transaction-scoped lock for key is
	// held. It is released on commit or rollback, so it must run inside a transaction.
	AdvisoryXactLock(ctx context.Context, key string) error
}

type lockRepo struct {
	db *gorm.DB
}

// NewLockRepo creates a LockRepository
func NewLockRepo(db *gorm.DB) LockRepository {
	return &lockRepo{db: db}
}

func (r *lockRepo) AdvisoryXactLock(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}
