package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/qres429/chatdoc-pro/internal/api/handlers"
	"github.com/qres429/chatdoc-pro/internal/api/middleware"
	"github.com/qres429/chatdoc-pro/internal/chat"
	"github.com/qres429/chatdoc-pro/internal/config"
	"github.com/qres429/chatdoc-pro/internal/database"
	"github.com/qres429/chatdoc-pro/internal/llm"
	"github.com/qres429/chatdoc-pro/internal/logger"
	"github.com/qres429/chatdoc-pro/internal/storage"
	"github.com/qres429/chatdoc-pro/internal/store"
)

const appVersion = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connections
	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := database.CloseDB(db); err != nil {
			logger.Log.Warnf("Failed to close database: %v", err)
		}
	}()

	redisClient := database.InitRedis(cfg)

	// Setup and run the server
	r, err := setupRouter(db, redisClient, cfg)
	if err != nil {
		logger.Log.Fatalf("Failed to set up server: %v", err)
	}

	logger.Log.Infof("Server starting on port %s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) (*gin.Engine, error) {
	r := gin.Default()

	// Configure CORS middleware
	headers := cors.DefaultConfig()
	headers.AllowOrigins = []string{cfg.FrontendURL}
	headers.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	headers.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	headers.ExposeHeaders = []string{"Content-Length"}
	headers.AllowCredentials = true
	r.Use(cors.New(headers))

	// Stores and collaborators
	users := store.NewUserStore(db)
	documents := store.NewDocumentStore(db)
	conversations := store.NewConversationStore(db)
	apiKeys := store.NewAPIKeyStore(db)

	files, err := storage.NewLocal(cfg.UploadDir)
	if err != nil {
		return nil, err
	}

	provider := llm.NewClient(
		cfg.ProviderBaseURL,
		cfg.ProviderModel,
		time.Duration(cfg.ProviderTimeoutSec)*time.Second,
	)
	chatService := chat.NewService(conversations, documents, apiKeys, provider, cfg.ProviderAPIKey)

	// Initialize handlers and middleware with dependencies
	handler := handlers.NewHandler(cfg, redisClient, users, documents, conversations, apiKeys, chatService, files)
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"name": "ChatDoc backend", "version": appVersion, "status": "running"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", handler.RegisterHandler)
			authGroup.POST("/login", handler.LoginHandler)
			authGroup.GET("/me", authMiddleware.AuthMiddleware(), handler.MeHandler)
		}

		// Document routes - protected by authentication
		docs := api.Group("/documents", authMiddleware.AuthMiddleware())
		{
			docs.GET("", handler.ListDocuments)
			docs.POST("/upload", handler.UploadDocument)
			docs.GET("/:id", handler.GetDocument)
			docs.DELETE("/:id", handler.DeleteDocument)
		}

		// Chat routes - protected by authentication
		chats := api.Group("/chat", authMiddleware.AuthMiddleware())
		{
			chats.POST("/send", handler.SendMessage)
			chats.GET("/conversations", handler.ListConversations)
			chats.GET("/conversations/:id", handler.GetConversation)
			chats.DELETE("/conversations/:id", handler.DeleteConversation)
		}

		// API key routes - protected by authentication
		keys := api.Group("/api-keys", authMiddleware.AuthMiddleware())
		{
			keys.GET("", handler.ListAPIKeys)
			keys.POST("", handler.CreateAPIKey)
			keys.DELETE("/:id", handler.DeleteAPIKey)
			keys.PATCH("/:id/activate", handler.ActivateAPIKey)
		}
	}

	return r, nil
}
