package router

import (
	"github.com/gin-gonic/gin"

	"chatbot-catalog/backend/internal/api"
	"chatbot-catalog/backend/pkg/di"
	"chatbot-catalog/backend/pkg/errors"
	"chatbot-catalog/backend/pkg/jwt"
	"chatbot-catalog/backend/pkg/logger"
	"chatbot-catalog/backend/pkg/middleware"
)

// Router is the main router for the application
type Router struct {
	Engine    *gin.Engine
	Container *di.Container
	Logger    *logger.Logger
}

// New creates the gin engine with the ambient middleware chain
func New(container *di.Container) *Router {
	logger.SetGlobal(container.Logger)

	if container.Config.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.MaxMultipartMemory = container.Config.Security.MaxBodySize

	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(logger.Middleware(container.Logger))
	engine.Use(errors.ErrorHandler())
	engine.Use(errors.RecoveryWithLogger())

	rateLimiter := middleware.NewRateLimiter(container.Logger)
	engine.Use(rateLimiter.Middleware())

	return &Router{
		Engine:    engine,
		Container: container,
		Logger:    container.Logger,
	}
}

// SetupRoutes registers all application routes
func (r *Router) SetupRoutes() {
	r.Engine.Use(corsMiddleware())

	jwtAuth := middleware.JWTAuthMiddleware(r.Container.JWTService, r.Logger)

	authHandler := api.NewAuthHandler(r.Container.UserService, r.Container.JWTService, r.Logger)
	chatbotHandler := api.NewChatbotHandler(r.Container.ChatbotService, r.Logger)
	conversationHandler := api.NewConversationHandler(r.Container.ConversationService, r.Container.ChatbotService, r.Logger)
	chatHandler := api.NewChatHandler(
		r.Container.ConversationService,
		r.Container.ChatbotService,
		r.Container.AIClient,
		r.Container.Extractor,
		r.Container.Config.Chat.MaxFiles,
		r.Container.Config.Chat.MaxFileSize,
		r.Logger,
	)

	r.setupHealthRoutes()

	apiRoutes := r.Engine.Group("/api")

	authRoutes := apiRoutes.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/logout", authHandler.Logout)
		authRoutes.GET("/me", jwtAuth, authHandler.Me)
	}

	chatbotRoutes := apiRoutes.Group("/chatbots")
	{
		chatbotRoutes.GET("", chatbotHandler.List)
		chatbotRoutes.GET("/:id", chatbotHandler.Get)
		chatbotRoutes.POST("", jwtAuth, middleware.RequireRole(jwt.RoleAdmin), chatbotHandler.Create)
		chatbotRoutes.PUT("/:id", jwtAuth, middleware.RequireRole(jwt.RoleAdmin), chatbotHandler.Update)
		chatbotRoutes.DELETE("/:id", jwtAuth, middleware.RequireRole(jwt.RoleAdmin), chatbotHandler.Delete)

		chatbotRoutes.GET("/:id/conversations", conversationHandler.ListByChatbot)
	}

	conversationRoutes := apiRoutes.Group("/conversations")
	{
		conversationRoutes.POST("", conversationHandler.Create)
		conversationRoutes.GET("/mine", jwtAuth, conversationHandler.ListMine)
		conversationRoutes.GET("/:id", conversationHandler.Get)
	}

	apiRoutes.POST("/chat/:conversationId", chatHandler.Send)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept, Accept-Encoding, X-CSRF-Token, Authorization, Origin")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
