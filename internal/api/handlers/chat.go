package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/qres429/chatdoc-pro/internal/chat"
	"github.com/qres429/chatdoc-pro/internal/logger"
	"github.com/qres429/chatdoc-pro/internal/models"
	"github.com/qres429/chatdoc-pro/internal/store"
)

// messageCacheTTL bounds how long a conversation's message list lives in
// Redis.
const messageCacheTTL = 24 * time.Hour

type SendMessageRequest struct {
	Message        string      `json:"message" binding:"required"`
	ConversationID *uuid.UUID  `json:"conversationId"`
	DocumentIDs    []uuid.UUID `json:"documentIds"`
}

type SendMessageResponse struct {
	ConversationID uuid.UUID `json:"conversationId"`
	Message        string    `json:"message"`
}

type MessageResponse struct {
	ID        uint      `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type ConversationResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ConversationDetailResponse struct {
	ID        uuid.UUID         `json:"id"`
	Title     string            `json:"title"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Messages  []MessageResponse `json:"messages"`
}

// SendMessage runs one send-message action through the chat orchestrator.
func (h *handler) SendMessage(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sendReq := chat.SendRequest{
		Text:        req.Message,
		DocumentIDs: req.DocumentIDs,
	}
	if req.ConversationID != nil {
		sendReq.ConversationID = *req.ConversationID
	}

	result, err := h.chat.Send(c.Request.Context(), userID, sendReq)
	if err != nil {
		var verr *chat.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Msg})
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		default:
			logger.Log.Errorf("Send failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send message"})
		}
		return
	}

	// The cached message list is stale now; drop it and let the next read
	// repopulate from the database.
	h.invalidateMessageCache(c.Request.Context(), result.ConversationID)

	c.JSON(http.StatusOK, SendMessageResponse{
		ConversationID: result.ConversationID,
		Message:        result.Reply,
	})
}

// ListConversations returns the user's conversations, most recently
// updated first.
func (h *handler) ListConversations(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	convs, err := h.conversations.ListByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversations"})
		return
	}

	response := make([]ConversationResponse, len(convs))
	for i, conv := range convs {
		response[i] = ConversationResponse{
			ID:        conv.ID,
			Title:     conv.Title,
			CreatedAt: conv.CreatedAt,
			UpdatedAt: conv.UpdatedAt,
		}
	}

	c.JSON(http.StatusOK, response)
}

// GetConversation returns a conversation with its messages in creation
// order, reading the message list through the Redis cache.
func (h *handler) GetConversation(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	convID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID"})
		return
	}

	conv, err := h.conversations.Get(userID, convID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversation"})
		return
	}

	messages, err := h.conversationMessages(c.Request.Context(), convID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, ConversationDetailResponse{
		ID:        conv.ID,
		Title:     conv.Title,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
		Messages:  messages,
	})
}

// DeleteConversation removes a conversation, its messages and its cache
// entry.
func (h *handler) DeleteConversation(c *gin.Context) {
	userID := c.MustGet("userID").(uuid.UUID)

	convID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid conversation ID"})
		return
	}

	if err := h.conversations.Delete(userID, convID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete conversation"})
		return
	}

	h.invalidateMessageCache(c.Request.Context(), convID)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// conversationMessages reads the message list from cache, falling back to
// the database and repopulating the cache on a miss.
func (h *handler) conversationMessages(ctx context.Context, convID uuid.UUID) ([]MessageResponse, error) {
	cacheKey := messageCacheKey(convID)

	if h.redisClient != nil {
		cached, err := h.getCachedMessages(ctx, cacheKey)
		if err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	dbMessages, err := h.conversations.Messages(convID)
	if err != nil {
		return nil, err
	}

	response := convertMessagesToResponse(dbMessages)

	if h.redisClient != nil {
		if err := h.cacheMessages(ctx, cacheKey, response); err != nil {
			logger.Log.Warnf("Failed to cache messages: %v", err)
		}
	}

	return response, nil
}

func messageCacheKey(convID uuid.UUID) string {
	return fmt.Sprintf("conversation:%s:messages", convID)
}

func (h *handler) getCachedMessages(ctx context.Context, cacheKey string) ([]MessageResponse, error) {
	cachedMsgs, err := h.redisClient.LRange(ctx, cacheKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get messages from cache: %w", err)
	}

	messages := make([]MessageResponse, 0, len(cachedMsgs))
	for _, msgStr := range cachedMsgs {
		var msg MessageResponse
		if err := json.Unmarshal([]byte(msgStr), &msg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal cached message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func (h *handler) cacheMessages(ctx context.Context, cacheKey string, messages []MessageResponse) error {
	pipe := h.redisClient.Pipeline()
	pipe.Del(ctx, cacheKey)

	for _, msg := range messages {
		msgJSON, err := json.Marshal(msg)
		if err != nil {
			logger.Log.Warnf("Failed to marshal message: %v", err)
			continue
		}
		pipe.RPush(ctx, cacheKey, msgJSON)
	}

	pipe.Expire(ctx, cacheKey, messageCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache messages: %w", err)
	}
	return nil
}

func (h *handler) invalidateMessageCache(ctx context.Context, convID uuid.UUID) {
	if h.redisClient == nil {
		return
	}
	if err := h.redisClient.Del(ctx, messageCacheKey(convID)).Err(); err != nil {
		logger.Log.Warnf("Failed to invalidate message cache: %v", err)
	}
}

func convertMessagesToResponse(messages []models.Message) []MessageResponse {
	response := make([]MessageResponse, len(messages))
	for i, msg := range messages {
		response[i] = MessageResponse{
			ID:        msg.ID,
			Role:      msg.Role,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
		}
	}
	return response
}
