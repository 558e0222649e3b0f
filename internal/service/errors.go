package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/AdamBeresnev/crease/internal/apperr"
	"github.com/AdamBeresnev/crease/internal/store"
	"github.com/google/uuid"
)

// lookupError turns a failed single-row read into NotFound or Internal.
func lookupError(err error, what string, id uuid.UUID) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("%s %s not found", what, id)
	}
	return apperr.Internal(fmt.Sprintf("failed to get %s", what), err)
}

// writeError classifies a failed write. Lost updates and constraint
// violations surface as Conflict.
func writeError(msg string, err error) error {
	switch {
	case errors.Is(err, store.ErrStaleMatch):
		return apperr.Conflict("match was updated by another request, retry")
	case errors.Is(err, store.ErrDuplicate):
		return apperr.Conflict("%s: already exists", msg)
	case errors.Is(err, store.ErrInUse):
		return apperr.Conflict("%s: still referenced by other records", msg)
	}
	return apperr.Internal(msg, err)
}
