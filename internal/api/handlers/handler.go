package handlers

import (
	"github.com/go-redis/redis/v8"

	"github.com/qres429/chatdoc-pro/internal/chat"
	"github.com/qres429/chatdoc-pro/internal/config"
	"github.com/qres429/chatdoc-pro/internal/storage"
	"github.com/qres429/chatdoc-pro/internal/store"
)

// handler is the core struct with all dependencies
type handler struct {
	config        *config.Config
	redisClient   *redis.Client
	users         *store.UserStore
	documents     *store.DocumentStore
	conversations *store.ConversationStore
	apiKeys       *store.APIKeyStore
	chat          *chat.Service
	files         *storage.Local
}

// NewHandler creates a new handler instance
func NewHandler(
	config *config.Config,
	redisClient *redis.Client,
	users *store.UserStore,
	documents *store.DocumentStore,
	conversations *store.ConversationStore,
	apiKeys *store.APIKeyStore,
	chatService *chat.Service,
	files *storage.Local,
) *handler {
	return &handler{
		config:        config,
		redisClient:   redisClient,
		users:         users,
		documents:     documents,
		conversations: conversations,
		apiKeys:       apiKeys,
		chat:          chatService,
		files:         files,
	}
}
