package store

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qres429/chatdoc-pro/internal/models"
)

// ConversationStore persists conversations and their messages.
//
// Message appends and the surrounding provider call are deliberately not
// one transaction: a crash between them leaves a user message with no
// reply, which readers must tolerate.
type ConversationStore struct {
	db *gorm.DB
}

func NewConversationStore(db *gorm.DB) *ConversationStore {
	return &ConversationStore{db: db}
}

// Get returns the conversation with the given id if it is owned by userID.
func (s *ConversationStore) Get(userID, id uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	err := s.db.First(&conv, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &conv, nil
}

// Create starts a new conversation owned by userID.
func (s *ConversationStore) Create(userID uuid.UUID, title string) (*models.Conversation, error) {
	conv := models.Conversation{
		UserID: userID,
		Title:  title,
	}
	if err := s.db.Create(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// AppendMessage adds a message to a conversation and bumps the
// conversation's updated_at, in one transaction.
func (s *ConversationStore) AppendMessage(conversationID uuid.UUID, role, content string) (*models.Message, error) {
	msg := models.Message{
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", conversationID).
			Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListByUser returns the user's conversations, most recently updated first.
func (s *ConversationStore) ListByUser(userID uuid.UUID) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := s.db.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&convs).Error
	if err != nil {
		return nil, err
	}
	return convs, nil
}

// GetWithMessages returns the conversation and its messages in creation
// order (ties broken by insertion sequence).
func (s *ConversationStore) GetWithMessages(userID, id uuid.UUID) (*models.Conversation, error) {
	conv, err := s.Get(userID, id)
	if err != nil {
		return nil, err
	}
	err = s.db.Where("conversation_id = ?", id).
		Order("created_at ASC, id ASC").
		Find(&conv.Messages).Error
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// Messages returns a conversation's messages in creation order without the
// ownership check. Callers must have resolved the conversation first.
func (s *ConversationStore) Messages(conversationID uuid.UUID) ([]models.Message, error) {
	var msgs []models.Message
	err := s.db.Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// Delete removes a conversation and all of its messages.
func (s *ConversationStore) Delete(userID, id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var conv models.Conversation
		if err := tx.First(&conv, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			return notFound(err)
		}
		if err := tx.Where("conversation_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&conv).Error
	})
}
