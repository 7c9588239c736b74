package store

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qres429/chatdoc-pro/internal/models"
)

// DocumentStore persists uploaded document metadata and extracted text.
type DocumentStore struct {
	db *gorm.DB
}

func NewDocumentStore(db *gorm.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

func (s *DocumentStore) Create(doc *models.Document) error {
	return s.db.Create(doc).Error
}

func (s *DocumentStore) Get(userID, id uuid.UUID) (*models.Document, error) {
	var doc models.Document
	err := s.db.First(&doc, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &doc, nil
}

// ListByUser returns one page of the user's documents plus the total count.
func (s *DocumentStore) ListByUser(userID uuid.UUID, offset, limit int) ([]models.Document, int64, error) {
	var total int64
	err := s.db.Model(&models.Document{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var docs []models.Document
	err = s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&docs).Error
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// FetchByIDs returns the user's documents among ids, preserving the order
// of ids. Unknown or foreign-owned ids are silently skipped, so a stale id
// degrades to "no context" for that entry.
func (s *DocumentStore) FetchByIDs(userID uuid.UUID, ids []uuid.UUID) ([]models.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var docs []models.Document
	err := s.db.Where("user_id = ? AND id IN ?", userID, ids).Find(&docs).Error
	if err != nil {
		return nil, err
	}

	// SQL IN gives no ordering guarantee; restore the request order.
	byID := make(map[uuid.UUID]models.Document, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}
	ordered := make([]models.Document, 0, len(docs))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			ordered = append(ordered, d)
		}
	}
	return ordered, nil
}

func (s *DocumentStore) Delete(userID, id uuid.UUID) error {
	res := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Document{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
