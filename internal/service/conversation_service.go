package service

import (
	"errors"
	"time"

	"chatbot-catalog/backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrConversationNotFound = errors.New("conversation not found")

// ConversationService is the conversation store: an append-only message log
// per conversation on top of a jsonb column.
type ConversationService struct {
	db *gorm.DB
}

// NewConversationService creates a new conversation service
func NewConversationService(db *gorm.DB) *ConversationService {
	return &ConversationService{db: db}
}

// Create opens a new conversation thread for a chatbot
func (s *ConversationService) Create(req *models.CreateConversationRequest) (*models.Conversation, error) {
	conversation := &models.Conversation{
		ChatbotID: req.ChatbotID,
		UserID:    req.UserID,
		Title:     req.Title,
		Messages:  models.MessageList{},
	}

	if err := s.db.Create(conversation).Error; err != nil {
		return nil, err
	}

	return conversation, nil
}

// Get retrieves a conversation by ID
func (s *ConversationService) Get(id uint) (*models.Conversation, error) {
	var conversation models.Conversation
	result := s.db.First(&conversation, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, result.Error
	}
	return &conversation, nil
}

// ListByChatbot returns all conversations belonging to a chatbot
func (s *ConversationService) ListByChatbot(chatbotID uint) ([]models.Conversation, error) {
	var conversations []models.Conversation
	if err := s.db.Where("chatbot_id = ?", chatbotID).Find(&conversations).Error; err != nil {
		return nil, err
	}
	if conversations == nil {
		conversations = []models.Conversation{}
	}
	return conversations, nil
}

// ListByUser returns all conversations belonging to a user
func (s *ConversationService) ListByUser(userID uint) ([]models.Conversation, error) {
	var conversations []models.Conversation
	if err := s.db.Where("user_id = ?", userID).Find(&conversations).Error; err != nil {
		return nil, err
	}
	if conversations == nil {
		conversations = []models.Conversation{}
	}
	return conversations, nil
}

// AppendMessage appends one message to a conversation's log, assigning its
// id and timestamp, and bumps the conversation's updated_at.
//
// The read-then-write sequence is not wrapped in a transaction: two appends
// racing on the same conversation follow last-write-wins and one can be
// lost. Conversations are single-user threads so this matches the store
// contract.
func (s *ConversationService) AppendMessage(conversationID uint, role, content string) (*models.Message, error) {
	if err := models.ValidateMessage(role, content); err != nil {
		return nil, err
	}

	conversation, err := s.Get(conversationID)
	if err != nil {
		return nil, err
	}

	message := models.Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}

	updated := append(conversation.Messages, message)

	err = s.db.Model(conversation).Updates(map[string]interface{}{
		"messages":   updated,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		return nil, err
	}

	return &message, nil
}
