package service

import (
	"context"
	"tush00nka/bbbab_chats/internal/model"
)

type ChatService interface {
	Create(ctx context.Context, creatorID uint, chatType, name string, memberIDs []uint) (*model.Chat, error)
	ListForUser(ctx context.Context, userID uint) ([]model.ChatSummary, error)
	EnsureSavedChat(ctx context.Context, userID uint) (*model.Chat, error)
	AddMember(ctx context.Context, chatID, actorID, userID uint) error
}

type MessageService interface {
	Send(ctx context.Context, chatID, senderID uint, input SendMessageInput) (*model.Message, error)
	List(ctx context.Context, chatID, requesterID uint) ([]MessageView, error)
	Clear(ctx context.Context, chatID, requesterID uint) error
	Edit(ctx context.Context, messageID, requesterID uint, patch MessagePatch) error
}

type ReactionService interface {
	React(ctx context.Context, messageID, userID uint, emoji string) error
	Summarize(ctx context.Context, messageID, requesterID uint) ([]model.ReactionCount, error)
}

type AttachmentService interface {
	Store(ctx context.Context, data []byte, mimeType string) (string, error)
}

type PresenceService interface {
	Touch(ctx context.Context, chatID, userID uint) error
	Viewers(ctx context.Context, chatID, requesterID uint) ([]uint, error)
}
