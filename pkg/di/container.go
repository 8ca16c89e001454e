package di

import (
	"context"
	"time"

	"gorm.io/gorm"

	"chatbot-catalog/backend/ai"
	"chatbot-catalog/backend/internal/attachment"
	"chatbot-catalog/backend/internal/service"
	"chatbot-catalog/backend/pkg/cache"
	"chatbot-catalog/backend/pkg/config"
	"chatbot-catalog/backend/pkg/jwt"
	"chatbot-catalog/backend/pkg/logger"
)

// Container holds all the dependencies for the application
type Container struct {
	DB                  *gorm.DB
	Config              *config.Config
	Logger              *logger.Logger
	Cache               cache.Store
	JWTService          *jwt.Service
	UserService         *service.UserService
	ChatbotService      *service.ChatbotService
	ConversationService *service.ConversationService
	AIClient            *ai.Client
	Extractor           *attachment.Extractor
}

// New wires the application dependencies from configuration
func New(db *gorm.DB, cfg *config.Config, log *logger.Logger) (*Container, error) {
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	store := newCacheStore(cfg, log)

	return &Container{
		DB:                  db,
		Config:              cfg,
		Logger:              log,
		Cache:               store,
		JWTService:          jwtService,
		UserService:         service.NewUserService(db, jwtService),
		ChatbotService:      service.NewChatbotService(db, store, cfg.Cache.TTL),
		ConversationService: service.NewConversationService(db),
		AIClient:            ai.NewClient(cfg, log),
		Extractor:           attachment.NewExtractor(cfg.Chat.TempDir, cfg.Chat.PDFToText, log),
	}, nil
}

// newCacheStore picks the configured cache backend, falling back to the
// in-memory store when redis is unreachable. A nil store means caching is
// off; ChatbotService treats nil as cache-disabled.
func newCacheStore(cfg *config.Config, log *logger.Logger) cache.Store {
	if !cfg.Cache.Enabled {
		return nil
	}
	if cfg.Cache.Backend == "redis" {
		store := cache.NewRedis(cfg.Cache.RedisURL)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			log.Warn("Redis unavailable, using in-memory cache", "error", err.Error())
		} else {
			return store
		}
	}
	return cache.NewMemory(cfg.Cache.MaxSize, time.Minute)
}
