// Package store provides ownership-scoped repositories over GORM. Every
// query that targets a specific row filters by the owning user id, so a
// miss and a foreign-owned row are indistinguishable to callers: both are
// ErrNotFound.
package store

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a row does not exist under the caller's
// ownership scope.
var ErrNotFound = errors.New("not found")

// notFound translates GORM's sentinel into the store's.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
