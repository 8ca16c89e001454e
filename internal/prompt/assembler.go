package prompt

import (
	"fmt"

	"chatbot-catalog/backend/internal/attachment"
	"chatbot-catalog/backend/internal/models"
)

// directive is appended to every system message so the assistant always
// produces a full document before asking about refinements.
const directive = "IMPORTANTE: SEMPRE comece gerando um documento completo inicial. Depois pergunte se deseja melhorias. Termine sempre com versão final."

// Message is one prompt turn, independent of any provider SDK. Parts is set
// only for the final user turn when the extractor produced image fragments.
type Message struct {
	Role  string
	Text  string
	Parts []attachment.Part
}

// Assemble builds the full prompt for a completion call: the chatbot's
// system message, the stored conversation history in order, and the current
// turn's extracted content last. No truncation is applied.
func Assemble(bot *models.Chatbot, history []models.Message, content attachment.Content) []Message {
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: "system", Text: SystemMessage(bot)})

	for _, m := range history {
		messages = append(messages, Message{Role: m.Role, Text: m.Content})
	}

	final := Message{Role: models.RoleUser, Text: content.Text}
	if content.HasImages {
		final.Parts = content.Parts
	}
	return append(messages, final)
}

// SystemMessage renders the chatbot configuration into the labeled prompt
// header expected by the completion model.
func SystemMessage(bot *models.Chatbot) string {
	return fmt.Sprintf(`PERSONA: %s

TAREFA: %s

INSTRUÇÕES: %s

SAÍDA ESPERADA: %s

%s`, bot.Persona, bot.Tarefa, bot.Instrucoes, bot.Saida, directive)
}
