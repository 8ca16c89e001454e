package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatbot-catalog/backend/ai"
	"chatbot-catalog/backend/internal/attachment"
	"chatbot-catalog/backend/internal/models"
	"chatbot-catalog/backend/internal/prompt"
	"chatbot-catalog/backend/internal/service"
	"chatbot-catalog/backend/pkg/logger"
)

type fakeConversations struct {
	conversations map[uint]*models.Conversation
	appendErr     error
	appended      []models.Message
}

func (f *fakeConversations) Get(id uint) (*models.Conversation, error) {
	conv, ok := f.conversations[id]
	if !ok {
		return nil, service.ErrConversationNotFound
	}
	copied := *conv
	copied.Messages = append(models.MessageList{}, conv.Messages...)
	return &copied, nil
}

func (f *fakeConversations) AppendMessage(conversationID uint, role, content string) (*models.Message, error) {
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	conv, ok := f.conversations[conversationID]
	if !ok {
		return nil, service.ErrConversationNotFound
	}
	msg := models.Message{ID: fmt.Sprintf("msg-%d", len(f.appended)+1), Role: role, Content: content}
	conv.Messages = append(conv.Messages, msg)
	f.appended = append(f.appended, msg)
	return &msg, nil
}

type fakeChatbots struct {
	bots map[uint]*models.Chatbot
}

func (f *fakeChatbots) Get(id uint) (*models.Chatbot, error) {
	bot, ok := f.bots[id]
	if !ok {
		return nil, service.ErrChatbotNotFound
	}
	return bot, nil
}

type fakeCompleter struct {
	reply string
	err   error
	got   []prompt.Message
}

func (f *fakeCompleter) Complete(_ context.Context, messages []prompt.Message) (string, error) {
	f.got = messages
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type chatFixture struct {
	router        *gin.Engine
	conversations *fakeConversations
	completer     *fakeCompleter
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New(logger.Config{Level: "error"})
	conversations := &fakeConversations{conversations: map[uint]*models.Conversation{
		1: {ID: 1, ChatbotID: 7, Title: "Ofício mensal", Messages: models.MessageList{
			{ID: "m1", Role: models.RoleUser, Content: "pergunta antiga"},
			{ID: "m2", Role: models.RoleAssistant, Content: "resposta antiga"},
		}},
		2: {ID: 2, ChatbotID: 99, Title: "Sem chatbot", Messages: models.MessageList{}},
	}}
	chatbots := &fakeChatbots{bots: map[uint]*models.Chatbot{
		7: {ID: 7, Name: "Redator", Persona: "redator oficial", Tarefa: "redigir", Instrucoes: "formal", Saida: "documento"},
	}}
	completer := &fakeCompleter{reply: "Segue o documento solicitado."}

	handler := NewChatHandler(
		conversations,
		chatbots,
		completer,
		attachment.NewExtractor(t.TempDir(), "pdftotext", log),
		3,
		10<<20,
		log,
	)

	router := gin.New()
	router.POST("/api/chat/:conversationId", handler.Send)

	return &chatFixture{router: router, conversations: conversations, completer: completer}
}

type uploadFile struct {
	name        string
	contentType string
	data        []byte
}

func multipartBody(t *testing.T, message string, files ...uploadFile) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if message != "" {
		require.NoError(t, writer.WriteField("message", message))
	}
	for _, f := range files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, f.name))
		header.Set("Content-Type", f.contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func (fx *chatFixture) send(t *testing.T, conversationID string, message string, files ...uploadFile) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, message, files...)
	req := httptest.NewRequest(http.MethodPost, "/api/chat/"+conversationID, body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)
	return w
}

func TestChatEmptyMessage(t *testing.T) {
	fx := newChatFixture(t)

	w := fx.send(t, "1", "   ")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, fx.conversations.appended)
}

func TestChatConversationNotFound(t *testing.T) {
	fx := newChatFixture(t)

	w := fx.send(t, "42", "olá")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Conversation not found")
	assert.Empty(t, fx.conversations.appended)
}

func TestChatChatbotNotFound(t *testing.T) {
	fx := newChatFixture(t)

	w := fx.send(t, "2", "olá")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Chatbot not found")
	assert.Empty(t, fx.conversations.appended)
}

func TestChatInvalidConversationID(t *testing.T) {
	fx := newChatFixture(t)

	w := fx.send(t, "abc", "olá")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatSuccess(t *testing.T) {
	fx := newChatFixture(t)

	w := fx.send(t, "1", "escreva um ofício")

	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, fx.conversations.appended, 2)
	assert.Equal(t, models.RoleUser, fx.conversations.appended[0].Role)
	assert.Equal(t, "escreva um ofício", fx.conversations.appended[0].Content)
	assert.Equal(t, models.RoleAssistant, fx.conversations.appended[1].Role)
	assert.Equal(t, "Segue o documento solicitado.", fx.conversations.appended[1].Content)

	// Prompt carries system + prior history + the new turn.
	require.Len(t, fx.completer.got, 4)
	assert.Equal(t, "system", fx.completer.got[0].Role)
	assert.Contains(t, fx.completer.got[0].Text, "PERSONA: redator oficial")
	assert.Equal(t, "pergunta antiga", fx.completer.got[1].Text)
	assert.Equal(t, "escreva um ofício", fx.completer.got[3].Text)

	var resp models.Conversation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 4)
	assert.Equal(t, "Segue o documento solicitado.", resp.Messages[3].Content)
}

func TestChatStoresFileAnnotation(t *testing.T) {
	fx := newChatFixture(t)

	w := fx.send(t, "1", "resuma", uploadFile{
		name:        "notas.txt",
		contentType: "text/plain",
		data:        []byte("conteúdo das notas"),
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "resuma\n[Arquivos anexados: notas.txt (text/plain)]", fx.conversations.appended[0].Content)

	// The prompt sees the extracted content, not the annotation.
	final := fx.completer.got[len(fx.completer.got)-1]
	assert.Contains(t, final.Text, "[Conteúdo do arquivo notas.txt]:\nconteúdo das notas")
}

func TestChatDropsDisallowedMimetype(t *testing.T) {
	fx := newChatFixture(t)

	w := fx.send(t, "1", "veja", uploadFile{
		name:        "arquivo.zip",
		contentType: "application/zip",
		data:        []byte("zip bytes"),
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "veja", fx.conversations.appended[0].Content)
}

func TestChatTruncatesToMaxFiles(t *testing.T) {
	fx := newChatFixture(t)

	files := make([]uploadFile, 4)
	for i := range files {
		files[i] = uploadFile{
			name:        fmt.Sprintf("f%d.txt", i+1),
			contentType: "text/plain",
			data:        []byte("x"),
		}
	}
	w := fx.send(t, "1", "resuma", files...)

	require.Equal(t, http.StatusOK, w.Code)
	user := fx.conversations.appended[0].Content
	assert.Contains(t, user, "f3.txt (text/plain)")
	assert.NotContains(t, user, "f4.txt")
}

func TestChatCompletionFailure(t *testing.T) {
	fx := newChatFixture(t)
	fx.completer.err = errors.New("upstream down")

	w := fx.send(t, "1", "olá")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to process chat message")

	// The user turn stays appended even though the reply failed.
	require.Len(t, fx.conversations.appended, 1)
	assert.Equal(t, models.RoleUser, fx.conversations.appended[0].Role)
}

func TestChatEmptyCompletionFallback(t *testing.T) {
	fx := newChatFixture(t)
	fx.completer.err = ai.ErrEmptyCompletion

	w := fx.send(t, "1", "olá")

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, fx.conversations.appended, 2)
	assert.Equal(t, "Desculpe, não foi possível gerar uma resposta.", fx.conversations.appended[1].Content)
}
