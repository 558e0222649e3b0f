package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrDuplicate means a unique constraint rejected the row.
	ErrDuplicate = errors.New("duplicate row")
	// ErrInUse means the row is still referenced by another table.
	ErrInUse = errors.New("row is still referenced")
)

// classify wraps SQLite constraint failures in the package's sentinel errors
// and returns anything else unchanged.
func classify(err error) error {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}
	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case sqlite3.ErrConstraintForeignKey:
		return fmt.Errorf("%w: %v", ErrInUse, err)
	}
	return err
}

// affected reports whether a write touched any row.
func affected(res sql.Result, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
