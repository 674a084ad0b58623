package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// translate maps a gorm error onto the domain taxonomy:
//   - domain errors raised inside a transaction pass through unchanged
//   - gorm.ErrRecordNotFound becomes NotFound for entity/id
//   - gorm.ErrDuplicatedKey becomes conflict (when given)
//   - context cancellation passes through
//   - everything else is an Unavailable store
func translate(err error, entity, id string, conflict error) error {
	if err == nil {
		return nil
	}

	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.NewNotFoundError(entity, id)
	case errors.Is(err, gorm.ErrDuplicatedKey) && conflict != nil:
		return conflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return shared.NewUnavailableError(err)
}

// unavailable wraps a store failure that has no entity context
func unavailable(err error) error {
	return translate(err, "", "", nil)
}
