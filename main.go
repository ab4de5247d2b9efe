package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"mystic-backend/config"
	"mystic-backend/controller"
	"mystic-backend/dao"
	"mystic-backend/logic"
	"mystic-backend/middleware"
	"mystic-backend/models"
	"mystic-backend/pkg"
	"mystic-backend/store"
)

func main() {
	// Initialize config
	if len(os.Args) < 2 {
		log.Fatal("Usage: mystic-backend <config.yaml>")
	}
	configFile := os.Args[1]
	if err := config.LoadConfig(configFile); err != nil {
		log.Fatalf("Failed to load config from %s: %v", configFile, err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Initialize database
	db, err := gorm.Open(postgres.Open(config.GlobalConfig.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Conversation{}, &models.Message{}, &models.Prompt{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Initialize completion client
	chatClient := pkg.NewChatClient(
		config.GlobalConfig.Chat.BaseURL,
		config.GlobalConfig.Chat.APIKey,
		config.GlobalConfig.Chat.Model,
		config.GlobalConfig.Chat.MaxTokens,
	)

	// Initialize DAOs
	userDAO := dao.NewUserDAO(db)
	convoDAO := dao.NewConversationDAO(db)
	messageDAO := dao.NewMessageDAO(db)
	promptDAO := dao.NewPromptDAO(db)

	// Seed default prompts for services that have none configured yet
	if err := promptDAO.SeedPrompts(models.Services); err != nil {
		log.Fatalf("Failed to seed prompts: %v", err)
	}

	// Initialize Logics
	userLogic := logic.NewUserLogic(userDAO)
	promptLogic := logic.NewPromptLogic(promptDAO)
	chatLogic := logic.NewChatLogic(userDAO, promptDAO, chatClient, logger)

	// Initialize conversation store backends
	remoteStore := store.NewRemote(convoDAO, messageDAO)
	localStore := store.NewLocal()

	// Initialize Controllers
	secret := config.GlobalConfig.Auth.Secret
	userCtrl := controller.NewUserController(userLogic)
	promptCtrl := controller.NewPromptController(promptLogic)
	chatCtrl := controller.NewChatController(chatLogic)
	convoCtrl := controller.NewConversationController(remoteStore, localStore, secret)
	svcCtrl := controller.NewServiceController()

	// Setup Gin router
	r := gin.Default()
	r.GET("/healthz", svcCtrl.Health)
	r.GET("/api/services", svcCtrl.ListServices)

	r.POST("/api/chat", middleware.Auth(secret), chatCtrl.Chat)
	r.GET("/api/user", middleware.Auth(secret), userCtrl.GetUser)

	r.GET("/api/prompts", middleware.Auth(secret), promptCtrl.ListPrompts)
	r.GET("/api/prompts/:slug", middleware.Auth(secret), promptCtrl.GetPrompt)
	r.PUT("/api/prompts/:slug", middleware.Auth(secret), promptCtrl.SavePrompt)

	// Conversation store endpoints resolve their own credential: bearer
	// token or anonymous session id.
	r.GET("/api/conversations", convoCtrl.ListConversations)
	r.POST("/api/conversations", convoCtrl.CreateConversation)
	r.GET("/api/conversations/:id/messages", convoCtrl.GetMessages)
	r.POST("/api/conversations/:id/messages", convoCtrl.AppendMessage)

	// Run server
	if err := r.Run(fmt.Sprintf(":%d", config.GlobalConfig.Server.Port)); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
