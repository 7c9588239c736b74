package models

import (
	"time"

	"github.com/google/uuid"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one utterance in a conversation. Messages are append-only;
// their order is creation time, ties broken by the auto-increment id.
type Message struct {
	ID             uint `gorm:"primarykey"`
	CreatedAt      time.Time
	ConversationID uuid.UUID `gorm:"type:uuid;index;not null"`
	Role           string    `gorm:"size:20;not null;check:role IN ('user','assistant')"`
	Content        string    `gorm:"type:text;not null"`
}
