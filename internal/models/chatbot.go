package models

import (
	"time"
)

// Document type values for a chatbot profile
const (
	TipoDocumento     = "documento"
	TipoPersonalizado = "personalizado"
)

// Chatbot is an operator-configured persona/task profile driving one family
// of conversations. The Portuguese field names mirror the admin form.
type Chatbot struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Name            string    `json:"name" gorm:"not null"`
	Persona         string    `json:"persona" gorm:"type:text;not null"`
	Tarefa          string    `json:"tarefa" gorm:"type:text;not null"`
	Instrucoes      string    `json:"instrucoes" gorm:"type:text;not null"`
	Saida           string    `json:"saida" gorm:"type:text;not null"`
	MensagemInicial string    `json:"mensagemInicial,omitempty" gorm:"type:text"`
	TipoDocumento   string    `json:"tipoDocumento" gorm:"default:personalizado"`
	Icon            string    `json:"icon" gorm:"default:fa-robot"`
	Status          string    `json:"status" gorm:"default:active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateChatbotRequest is the request structure for creating a chatbot
type CreateChatbotRequest struct {
	Name            string `json:"name" binding:"required"`
	Persona         string `json:"persona" binding:"required"`
	Tarefa          string `json:"tarefa" binding:"required"`
	Instrucoes      string `json:"instrucoes" binding:"required"`
	Saida           string `json:"saida" binding:"required"`
	MensagemInicial string `json:"mensagemInicial"`
	TipoDocumento   string `json:"tipoDocumento"`
	Icon            string `json:"icon"`
}

// UpdateChatbotRequest carries a partial update; nil fields are left untouched
type UpdateChatbotRequest struct {
	Name            *string `json:"name"`
	Persona         *string `json:"persona"`
	Tarefa          *string `json:"tarefa"`
	Instrucoes      *string `json:"instrucoes"`
	Saida           *string `json:"saida"`
	MensagemInicial *string `json:"mensagemInicial"`
	TipoDocumento   *string `json:"tipoDocumento"`
	Icon            *string `json:"icon"`
	Status          *string `json:"status"`
}
