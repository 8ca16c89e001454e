package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"chatbot-catalog/backend/internal/models"
	"chatbot-catalog/backend/internal/service"
	"chatbot-catalog/backend/pkg/logger"
)

// ChatbotHandler handles chatbot catalog CRUD
type ChatbotHandler struct {
	service *service.ChatbotService
	logger  *logger.Logger
}

func NewChatbotHandler(service *service.ChatbotService, logger *logger.Logger) *ChatbotHandler {
	return &ChatbotHandler{service: service, logger: logger}
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}

// List returns every chatbot in the catalog
func (h *ChatbotHandler) List(c *gin.Context) {
	chatbots, err := h.service.List()
	if err != nil {
		h.logger.Error("Error listing chatbots", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list chatbots"})
		return
	}
	c.JSON(http.StatusOK, chatbots)
}

// Get returns one chatbot by ID
func (h *ChatbotHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	chatbot, err := h.service.Get(id)
	if err != nil {
		switch err {
		case service.ErrChatbotNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Chatbot not found"})
		default:
			h.logger.Error("Error fetching chatbot", "chatbotID", id, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chatbot"})
		}
		return
	}
	c.JSON(http.StatusOK, chatbot)
}

// Create adds a chatbot to the catalog
func (h *ChatbotHandler) Create(c *gin.Context) {
	var req models.CreateChatbotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Error binding JSON for chatbot create", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	chatbot, err := h.service.Create(&req)
	if err != nil {
		h.logger.Error("Error creating chatbot", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create chatbot"})
		return
	}
	c.JSON(http.StatusCreated, chatbot)
}

// Update applies a partial update to a chatbot
func (h *ChatbotHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UpdateChatbotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Error binding JSON for chatbot update", "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	chatbot, err := h.service.Update(id, &req)
	if err != nil {
		switch err {
		case service.ErrChatbotNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Chatbot not found"})
		default:
			h.logger.Error("Error updating chatbot", "chatbotID", id, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update chatbot"})
		}
		return
	}
	c.JSON(http.StatusOK, chatbot)
}

// Delete removes a chatbot from the catalog
func (h *ChatbotHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(id); err != nil {
		switch err {
		case service.ErrChatbotNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "Chatbot not found"})
		default:
			h.logger.Error("Error deleting chatbot", "chatbotID", id, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete chatbot"})
		}
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
