package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrUniqueViolation a unique index rejected the write
	ErrUniqueViolation = errors.New("unique constraint violated")
	// ErrForeignKeyViolation a foreign key rejected the write or delete
	ErrForeignKeyViolation = errors.New("foreign key constraint violated")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translate maps PostgreSQL constraint errors onto the sentinels above and
// keeps the driver error in the chain.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return errors.Join(ErrUniqueViolation, err)
	case pgForeignKeyViolation:
		return errors.Join(ErrForeignKeyViolation, err)
	}
	return err
}
