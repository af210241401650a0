package persistence

import (
	"errors"

	"github.com/eric6923/finTrack-sub000/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps driver errors to domain errors. The database is opened
// with TranslateError so both postgres and sqlite report gorm sentinels.
func translateError(err error, conflict, inUse error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey) && conflict != nil:
		return conflict
	case errors.Is(err, gorm.ErrForeignKeyViolated) && inUse != nil:
		return inUse
	default:
		return err
	}
}

// notFound maps gorm.ErrRecordNotFound to shared.ErrNotFound
func notFound(err error) error {
	return translateError(err, nil, nil)
}
