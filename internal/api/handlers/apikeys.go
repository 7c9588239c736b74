package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/qres429/chatdoc-pro/internal/logger"
	"github.com/qres429/chatdoc-pro/internal/models"
	"github.com/qres429/chatdoc-pro/internal/store"
)

type CreateAPIKeyRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Provider string `json:"provider" binding:"required,max=50"`
	Key      string `json:"key" binding:"required"`
}

// APIKeyResponse never carries the full secret; keys are masked past the
// first 8 characters.
type APIKeyResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Provider  string    `json:"provider"`
	Key       string    `json:"key"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func convertToAPIKeyResponse(key *models.APIKey) APIKeyResponse {
	return APIKeyResponse{
		ID:        key.ID,
		Name:      key.Name,
		Provider:  key.Provider,
		Key:       key.MaskedKey(),
		IsActive:  key.IsActive,
		CreatedAt: key.CreatedAt,
	}
}

// ListAPIKeys returns the user's stored credentials, masked.
func (h *handler) ListAPIKeys(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	keys, err := h.apiKeys.ListByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch API keys"})
		return
	}

	response := make([]APIKeyResponse, len(keys))
	for i := range keys {
		response[i] = convertToAPIKeyResponse(&keys[i])
	}

	c.JSON(http.StatusOK, response)
}

// CreateAPIKey stores a new credential for the user.
func (h *handler) CreateAPIKey(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	var req CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key := models.APIKey{
		UserID:   userID,
		Name:     req.Name,
		Provider: req.Provider,
		Key:      req.Key,
		IsActive: true,
	}

	if err := h.apiKeys.Create(&key); err != nil {
		logger.Log.Errorf("Failed to create API key: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create API key"})
		return
	}

	c.JSON(http.StatusCreated, convertToAPIKeyResponse(&key))
}

// DeleteAPIKey removes one of the user's credentials.
func (h *handler) DeleteAPIKey(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	keyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid API key ID"})
		return
	}

	if err := h.apiKeys.Delete(userID, keyID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "API key not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete API key"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ActivateAPIKey makes one key active and all of the user's other keys
// inactive.
func (h *handler) ActivateAPIKey(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	keyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid API key ID"})
		return
	}

	if err := h.apiKeys.Activate(userID, keyID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "API key not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to activate API key"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
