package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"chatbot-catalog/backend/ai"
	"chatbot-catalog/backend/internal/attachment"
	"chatbot-catalog/backend/internal/models"
	"chatbot-catalog/backend/internal/prompt"
	"chatbot-catalog/backend/internal/service"
	"chatbot-catalog/backend/pkg/logger"
	"chatbot-catalog/backend/shared/observability"
)

// fallbackReply is stored when the completion comes back without content
const fallbackReply = "Desculpe, não foi possível gerar uma resposta."

// ConversationStore is the slice of the conversation service the chat
// pipeline needs.
type ConversationStore interface {
	Get(id uint) (*models.Conversation, error)
	AppendMessage(conversationID uint, role, content string) (*models.Message, error)
}

// ChatbotStore resolves chatbot configurations
type ChatbotStore interface {
	Get(id uint) (*models.Chatbot, error)
}

// Completer produces an assistant reply for an assembled prompt
type Completer interface {
	Complete(ctx context.Context, messages []prompt.Message) (string, error)
}

// ChatHandler runs the chat pipeline: multipart message plus attachments in,
// updated conversation out.
type ChatHandler struct {
	conversations ConversationStore
	chatbots      ChatbotStore
	completer     Completer
	extractor     *attachment.Extractor
	maxFiles      int
	maxFileSize   int64
	logger        *logger.Logger
}

func NewChatHandler(
	conversations ConversationStore,
	chatbots ChatbotStore,
	completer Completer,
	extractor *attachment.Extractor,
	maxFiles int,
	maxFileSize int64,
	logger *logger.Logger,
) *ChatHandler {
	return &ChatHandler{
		conversations: conversations,
		chatbots:      chatbots,
		completer:     completer,
		extractor:     extractor,
		maxFiles:      maxFiles,
		maxFileSize:   maxFileSize,
		logger:        logger,
	}
}

// Send handles POST /api/chat/:conversationId. The user turn is appended
// before the completion call; a completion failure leaves it in place.
func (h *ChatHandler) Send(c *gin.Context) {
	observability.ChatRequests.Inc()

	conversationID, ok := parseID(c, "conversationId")
	if !ok {
		return
	}

	message := c.PostForm("message")
	if strings.TrimSpace(message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	conversation, err := h.conversations.Get(conversationID)
	if err != nil {
		h.notFoundOrInternal(c, err, "Conversation not found", "conversationID", conversationID)
		return
	}

	chatbot, err := h.chatbots.Get(conversation.ChatbotID)
	if err != nil {
		h.notFoundOrInternal(c, err, "Chatbot not found", "chatbotID", conversation.ChatbotID)
		return
	}

	files := h.collectFiles(c)
	content := h.extractor.Build(message, files)

	userMessage := message
	if len(files) > 0 {
		descriptions := make([]string, len(files))
		for i, f := range files {
			descriptions[i] = fmt.Sprintf("%s (%s)", f.Filename, f.ContentType)
		}
		userMessage += fmt.Sprintf("\n[Arquivos anexados: %s]", strings.Join(descriptions, ", "))
	}

	// History for the prompt is the log as read before this turn.
	history := conversation.Messages

	if _, err := h.conversations.AppendMessage(conversationID, models.RoleUser, userMessage); err != nil {
		h.logger.Error("Error appending user message", "conversationID", conversationID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process chat message"})
		return
	}

	reply, err := h.completer.Complete(c.Request.Context(), prompt.Assemble(chatbot, history, content))
	if err != nil {
		if !errors.Is(err, ai.ErrEmptyCompletion) {
			observability.ChatCompletionFailures.Inc()
			h.logger.Error("Completion call failed", "conversationID", conversationID, "error", err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process chat message"})
			return
		}
		reply = fallbackReply
	}

	if _, err := h.conversations.AppendMessage(conversationID, models.RoleAssistant, reply); err != nil {
		h.logger.Error("Error appending assistant message", "conversationID", conversationID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process chat message"})
		return
	}

	updated, err := h.conversations.Get(conversationID)
	if err != nil {
		h.logger.Error("Error re-reading conversation", "conversationID", conversationID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process chat message"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// collectFiles reads the accepted uploads into memory. Disallowed mimetypes
// and oversized files are dropped; at most maxFiles uploads are kept.
func (h *ChatHandler) collectFiles(c *gin.Context) []attachment.File {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}

	var files []attachment.File
	for _, header := range form.File["files"] {
		if len(files) >= h.maxFiles {
			break
		}

		contentType := header.Header.Get("Content-Type")
		if !attachment.IsAllowed(contentType) {
			h.logger.Warn("Dropping upload with disallowed mimetype",
				"file", header.Filename,
				"contentType", contentType,
			)
			continue
		}
		if header.Size > h.maxFileSize {
			h.logger.Warn("Dropping upload over the size limit",
				"file", header.Filename,
				"size", header.Size,
			)
			continue
		}

		f, err := header.Open()
		if err != nil {
			h.logger.Warn("Failed to open upload", "file", header.Filename, "error", err.Error())
			continue
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			h.logger.Warn("Failed to read upload", "file", header.Filename, "error", err.Error())
			continue
		}

		files = append(files, attachment.File{
			Filename:    header.Filename,
			ContentType: contentType,
			Size:        header.Size,
			Data:        data,
		})
	}
	return files
}

func (h *ChatHandler) notFoundOrInternal(c *gin.Context, err error, notFoundMsg string, key string, id uint) {
	if isNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
		return
	}
	h.logger.Error("Chat pipeline lookup failed", key, id, "error", err.Error())
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process chat message"})
}

func isNotFound(err error) bool {
	return errors.Is(err, service.ErrConversationNotFound) || errors.Is(err, service.ErrChatbotNotFound)
}
