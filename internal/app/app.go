package app

import (
	"log"
	"tush00nka/bbbab_chats/internal/config"
	"tush00nka/bbbab_chats/internal/handler"
	"tush00nka/bbbab_chats/internal/model"
	"tush00nka/bbbab_chats/internal/repository"
	"tush00nka/bbbab_chats/internal/service"
)

func Run(cfg *config.Config) {
	db, err := repository.NewDB(cfg.DSN())
	if err != nil {
		log.Fatal(err)
	}

	if err := db.AutoMigrate(
		&model.Chat{},
		&model.ChatMember{},
		&model.Message{},
		&model.MessageReaction{},
	); err != nil {
		log.Fatal(err)
	}

	rdb, err := repository.NewRedisClient(cfg)
	if err != nil {
		log.Fatal(err)
	}

	chatRepo := repository.NewChatRepository(db)
	memberRepo := repository.NewMembershipRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	reactionRepo := repository.NewReactionRepository(db)
	userRepo := repository.NewUserRepository(db)
	presenceRepo := repository.NewPresenceRepository(rdb)

	attachmentService, err := service.NewAttachmentService(cfg)
	if err != nil {
		log.Fatal(err)
	}

	chatService := service.NewChatService(chatRepo, memberRepo)
	messageService := service.NewMessageService(messageRepo, memberRepo, chatRepo, reactionRepo, userRepo, attachmentService)
	reactionService := service.NewReactionService(reactionRepo, messageRepo, memberRepo)
	presenceService := service.NewPresenceService(presenceRepo, memberRepo)

	chatHandler := handler.NewChatHandler(chatService, presenceService)
	messageHandler := handler.NewMessageHandler(messageService, presenceService)
	reactionHandler := handler.NewReactionHandler(reactionService)

	server := NewServer(chatHandler, messageHandler, reactionHandler)
	server.Run(cfg.ServerPort)
}
