package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// APIKey is a stored provider credential. At most one key per user is
// active at a time; activating a key deactivates all of the user's others.
type APIKey struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Name      string    `gorm:"size:100"`
	Provider  string    `gorm:"size:50"`
	Key       string    `gorm:"size:255"`
	IsActive  bool      `gorm:"default:true"`
}

func (k *APIKey) BeforeCreate(tx *gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return nil
}

// MaskedKey returns the key with everything past the first 8 characters
// replaced, for listing responses.
func (k *APIKey) MaskedKey() string {
	if len(k.Key) > 8 {
		return k.Key[:8] + "****"
	}
	return k.Key
}
