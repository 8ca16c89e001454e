package main

import (
	stdlog "log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"chatbot-catalog/backend/internal/models"
	"chatbot-catalog/backend/pkg/config"
	"chatbot-catalog/backend/pkg/logger"
)

const defaultChatbotInstrucoes = `SEMPRE gere um documento inicial completo com base na solicitação do usuário. Após gerar o documento, você pode fazer perguntas para aprimorá-lo, mas SEMPRE termine com uma versão final completa.

Para OFÍCIO INTERNO:
- Início: "Trata o presente expediente de [assunto]."
- Desenvolvimento: parágrafos com conectivos (Sobre o assunto, Dessa forma, Sendo assim)
- Conclusão: "Sendo essas as considerações, coloco o Ten Cel Av Alexandre, Chefe da Divisão de Projetos e Inovação, à disposição para as coordenações necessárias, no e-mail alexandreard@fab.mil.br por meio do telefone (61) 2023-2288."

Para OFÍCIO EXTERNO:
- Início: "Ao cumprimentá-lo cordialmente, passo a tratar sobre [assunto]."
- Desenvolvimento: parágrafos estruturados
- Conclusão: "Aproveito para renovar meus votos de elevada estima e distinta consideração, colocando a estrutura desta Diretoria à disposição de Vossa Senhoria na pessoa do Ten Cel Av Alexandre, Chefe da DPI, por intermédio dos telefones (61) 2023-2298, (19) 99927-1704 e endereço eletrônico corporativo alexandreard@fab.mil.br."

FLUXO: 1) Gere documento inicial 2) Pergunte se deseja ajustes 3) Refine conforme necessário 4) Entregue versão final.`

// seeds the database with the default user and catalog chatbot. Safe to run
// more than once: existing rows are left untouched.
func main() {
	if err := godotenv.Load(); err != nil {
		stdlog.Println("No .env file found")
	}

	log := logger.New(logger.DefaultConfig())

	db, err := config.NewDB()
	if err != nil {
		log.LogError(err, "Failed to connect to database")
		os.Exit(1)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Chatbot{}, &models.Conversation{}); err != nil {
		log.LogError(err, "Failed to migrate database")
		os.Exit(1)
	}

	if err := seedUser(db, log); err != nil {
		log.LogError(err, "Failed to seed default user")
		os.Exit(1)
	}
	if err := seedChatbot(db, log); err != nil {
		log.LogError(err, "Failed to seed default chatbot")
		os.Exit(1)
	}

	log.Info("Database seeding completed")
}

func seedUser(db *gorm.DB, log *logger.Logger) error {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	if email == "" {
		email = "alexandre@fab.mil.br"
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("Default user already exists", "email", email)
		return nil
	}

	user := models.User{
		Name:     "Ten Cel Av Alexandre",
		Email:    email,
		Password: password,
		Rank:     "Tenente Coronel Aviador",
		Unit:     "Divisão de Projetos e Inovação",
		Role:     "admin",
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}
	log.Info("Default user created", "email", email)
	return nil
}

func seedChatbot(db *gorm.DB, log *logger.Logger) error {
	var count int64
	if err := db.Model(&models.Chatbot{}).Where("name = ?", "SAD VIRTUAL").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("Default chatbot already exists", "name", "SAD VIRTUAL")
		return nil
	}

	bot := models.Chatbot{
		Name:          "SAD VIRTUAL",
		Persona:       "Um assistente virtual especializado na elaboração de documentos oficiais e administrativos, com foco em clareza, objetividade e padronização de estrutura textual. Atua como facilitador no processo de criação de ofícios, e-mails, relatórios e atas, guiando o usuário com base nas boas práticas da redação oficial.",
		Tarefa:        "Auxiliar o usuário na geração de documentos a partir de um menu de opções, coletando informações necessárias e estruturando o texto conforme o tipo de documento selecionado, sempre com foco na clareza, precisão e padronização institucional.",
		Instrucoes:    defaultChatbotInstrucoes,
		Saida:         "Documento completo inicial + interação para refinamento + versão final perfeita e pronta para uso.",
		TipoDocumento: models.TipoDocumento,
		Icon:          "fa-file-alt",
		Status:        "active",
	}
	if err := db.Create(&bot).Error; err != nil {
		return err
	}
	log.Info("Default chatbot created", "name", bot.Name)
	return nil
}
