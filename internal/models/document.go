package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is an uploaded file plus the text extracted from it. Rows are
// immutable after upload; conversations reference documents only by id at
// send time, so deleting a document never touches chat history.
type Document struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Name      string    `gorm:"size:255;not null"`
	FileType  string    `gorm:"size:50"`
	FilePath  string    `gorm:"size:500"`
	Content   string    `gorm:"type:text"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
