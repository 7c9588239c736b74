package store

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qres429/chatdoc-pro/internal/models"
)

// APIKeyStore persists provider credentials.
type APIKeyStore struct {
	db *gorm.DB
}

func NewAPIKeyStore(db *gorm.DB) *APIKeyStore {
	return &APIKeyStore{db: db}
}

func (s *APIKeyStore) Create(key *models.APIKey) error {
	return s.db.Create(key).Error
}

func (s *APIKeyStore) ListByUser(userID uuid.UUID) ([]models.APIKey, error) {
	var keys []models.APIKey
	err := s.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *APIKeyStore) Delete(userID, id uuid.UUID) error {
	res := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.APIKey{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Activate marks the given key active and every other key of the same user
// inactive, in one transaction. The scope is the whole user, not the key's
// provider: activating an openai key also deactivates an anthropic one.
func (s *APIKeyStore) Activate(userID, id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var key models.APIKey
		if err := tx.First(&key, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			return notFound(err)
		}
		err := tx.Model(&models.APIKey{}).
			Where("user_id = ? AND id <> ?", userID, id).
			Update("is_active", false).Error
		if err != nil {
			return err
		}
		return tx.Model(&models.APIKey{}).
			Where("id = ?", id).
			Update("is_active", true).Error
	})
}

// GetActive returns the user's active credential, or ErrNotFound when none
// is configured.
func (s *APIKeyStore) GetActive(userID uuid.UUID) (*models.APIKey, error) {
	var key models.APIKey
	err := s.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		First(&key).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &key, nil
}
