package service

import (
	"encoding/json"
	"errors"
	"time"

	"chatbot-catalog/backend/internal/models"
	"chatbot-catalog/backend/pkg/cache"

	"gorm.io/gorm"
)

var ErrChatbotNotFound = errors.New("chatbot not found")

const chatbotListCacheKey = "chatbots:all"

// ChatbotService handles the chatbot catalog. Reads of the full catalog go
// through the cache; every write invalidates it.
type ChatbotService struct {
	db       *gorm.DB
	cache    cache.Store
	cacheTTL time.Duration
}

// NewChatbotService creates a new chatbot service. cache may be nil to
// disable caching.
func NewChatbotService(db *gorm.DB, store cache.Store, cacheTTL time.Duration) *ChatbotService {
	return &ChatbotService{db: db, cache: store, cacheTTL: cacheTTL}
}

// Create adds a new chatbot to the catalog
func (s *ChatbotService) Create(req *models.CreateChatbotRequest) (*models.Chatbot, error) {
	chatbot := &models.Chatbot{
		Name:            req.Name,
		Persona:         req.Persona,
		Tarefa:          req.Tarefa,
		Instrucoes:      req.Instrucoes,
		Saida:           req.Saida,
		MensagemInicial: req.MensagemInicial,
		TipoDocumento:   req.TipoDocumento,
		Icon:            req.Icon,
		Status:          "active",
	}
	if chatbot.TipoDocumento == "" {
		chatbot.TipoDocumento = models.TipoPersonalizado
	}
	if chatbot.Icon == "" {
		chatbot.Icon = "fa-robot"
	}

	if err := s.db.Create(chatbot).Error; err != nil {
		return nil, err
	}

	s.invalidate()
	return chatbot, nil
}

// Get retrieves a chatbot by ID
func (s *ChatbotService) Get(id uint) (*models.Chatbot, error) {
	var chatbot models.Chatbot
	result := s.db.First(&chatbot, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrChatbotNotFound
		}
		return nil, result.Error
	}
	return &chatbot, nil
}

// List returns the full catalog, served from cache when possible
func (s *ChatbotService) List() ([]models.Chatbot, error) {
	if s.cache != nil {
		if data, ok := s.cache.Get(chatbotListCacheKey); ok {
			var cached []models.Chatbot
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
		}
	}

	var chatbots []models.Chatbot
	if err := s.db.Find(&chatbots).Error; err != nil {
		return nil, err
	}
	if chatbots == nil {
		chatbots = []models.Chatbot{}
	}

	if s.cache != nil {
		if data, err := json.Marshal(chatbots); err == nil {
			s.cache.Set(chatbotListCacheKey, data, s.cacheTTL)
		}
	}

	return chatbots, nil
}

// Update applies a partial update to a chatbot
func (s *ChatbotService) Update(id uint, req *models.UpdateChatbotRequest) (*models.Chatbot, error) {
	chatbot, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Persona != nil {
		updates["persona"] = *req.Persona
	}
	if req.Tarefa != nil {
		updates["tarefa"] = *req.Tarefa
	}
	if req.Instrucoes != nil {
		updates["instrucoes"] = *req.Instrucoes
	}
	if req.Saida != nil {
		updates["saida"] = *req.Saida
	}
	if req.MensagemInicial != nil {
		updates["mensagem_inicial"] = *req.MensagemInicial
	}
	if req.TipoDocumento != nil {
		updates["tipo_documento"] = *req.TipoDocumento
	}
	if req.Icon != nil {
		updates["icon"] = *req.Icon
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	if len(updates) > 0 {
		if err := s.db.Model(chatbot).Updates(updates).Error; err != nil {
			return nil, err
		}
		s.invalidate()
	}

	return chatbot, nil
}

// Delete removes a chatbot from the catalog
func (s *ChatbotService) Delete(id uint) error {
	result := s.db.Delete(&models.Chatbot{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrChatbotNotFound
	}

	s.invalidate()
	return nil
}

func (s *ChatbotService) invalidate() {
	if s.cache != nil {
		s.cache.Delete(chatbotListCacheKey)
	}
}
