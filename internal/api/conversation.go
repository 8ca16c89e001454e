package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chatbot-catalog/backend/internal/models"
	"chatbot-catalog/backend/internal/service"
	"chatbot-catalog/backend/pkg/logger"
)

// ConversationHandler handles conversation thread management
type ConversationHandler struct {
	conversations *service.ConversationService
	chatbots      *service.ChatbotService
	logger        *logger.Logger
}

func NewConversationHandler(conversations *service.ConversationService, chatbots *service.ChatbotService, logger *logger.Logger) *ConversationHandler {
	return &ConversationHandler{
		conversations: conversations,
		chatbots:      chatbots,
		logger:        logger,
	}
}

// Create opens a new conversation thread against an existing chatbot
func (h *ConversationHandler) Create(c *gin.Context) {
	var req models.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Error binding JSON for conversation create", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if _, err := h.chatbots.Get(req.ChatbotID); err != nil {
		switch err {
		case service.ErrChatbotNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Chatbot not found"})
		default:
			h.logger.Error("Error checking chatbot for conversation", "chatbotID", req.ChatbotID, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create conversation"})
		}
		return
	}

	if userID, exists := c.Get("userId"); exists && req.UserID == nil {
		id := userID.(uint)
		req.UserID = &id
	}

	conversation, err := h.conversations.Create(&req)
	if err != nil {
		h.logger.Error("Error creating conversation", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create conversation"})
		return
	}
	c.JSON(http.StatusCreated, conversation)
}

// Get returns one conversation with its full message log
func (h *ConversationHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	conversation, err := h.conversations.Get(id)
	if err != nil {
		switch err {
		case service.ErrConversationNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		default:
			h.logger.Error("Error fetching conversation", "conversationID", id, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversation"})
		}
		return
	}
	c.JSON(http.StatusOK, conversation)
}

// ListByChatbot returns every conversation thread of a chatbot
func (h *ConversationHandler) ListByChatbot(c *gin.Context) {
	chatbotID, ok := parseID(c, "id")
	if !ok {
		return
	}

	conversations, err := h.conversations.ListByChatbot(chatbotID)
	if err != nil {
		h.logger.Error("Error listing conversations", "chatbotID", chatbotID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list conversations"})
		return
	}
	c.JSON(http.StatusOK, conversations)
}

// ListMine returns the authenticated user's conversations
func (h *ConversationHandler) ListMine(c *gin.Context) {
	userID, exists := c.Get("userId")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	conversations, err := h.conversations.ListByUser(userID.(uint))
	if err != nil {
		h.logger.Error("Error listing user conversations", "userID", userID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list conversations"})
		return
	}
	c.JSON(http.StatusOK, conversations)
}
