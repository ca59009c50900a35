package persistence

import (
	"errors"
	"fmt"

	"github.com/fieldcollect/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translate maps driver errors onto domain errors. Anything unrecognized is
// wrapped with op so the caller can log where it failed.
func translate(op string, err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.NewNotFoundError(notFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.NewConflictError("Resource already exists")
	default:
		var de *shared.DomainError
		if errors.As(err, &de) {
			return err
		}
		return fmt.Errorf("%s: %w", op, err)
	}
}
