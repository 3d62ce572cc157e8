package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"tush00nka/bbbab_chats/internal/model"
	"tush00nka/bbbab_chats/internal/repository"

	"gorm.io/gorm"
)

const savedChatName = "Избранное"

type chatService struct {
	chatRepo   repository.ChatRepository
	memberRepo repository.MembershipRepository
}

func NewChatService(chatRepo repository.ChatRepository, memberRepo repository.MembershipRepository) ChatService {
	return &chatService{chatRepo: chatRepo, memberRepo: memberRepo}
}

// Create создает чат, владельца и участников. Чат типа saved создается
// только через EnsureSavedChat — у него ровно один участник.
func (s *chatService) Create(ctx context.Context, creatorID uint, chatType, name string, memberIDs []uint) (*model.Chat, error) {
	if creatorID == 0 {
		return nil, fmt.Errorf("%w: creator is required", ErrValidation)
	}

	switch chatType {
	case model.ChatTypeDirect, model.ChatTypeGroup:
	case model.ChatTypeSaved:
		return nil, fmt.Errorf("%w: saved chat is created per user, not on request", ErrValidation)
	default:
		return nil, fmt.Errorf("%w: unknown chat type %q", ErrValidation, chatType)
	}

	if chatType == model.ChatTypeGroup && strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: group chat name cannot be empty", ErrValidation)
	}

	for _, userID := range memberIDs {
		if userID == 0 {
			return nil, fmt.Errorf("%w: userID cannot be zero", ErrValidation)
		}
	}

	chat := &model.Chat{
		Type:      chatType,
		Name:      name,
		CreatedBy: creatorID,
	}

	if err := s.chatRepo.Create(ctx, chat, memberIDs); err != nil {
		return nil, err
	}

	return chat, nil
}

// ListForUser сначала резолвит членства, затем собирает сводки:
// заблокированные членства выпадают еще на первом шаге.
func (s *chatService) ListForUser(ctx context.Context, userID uint) ([]model.ChatSummary, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: userID cannot be zero", ErrValidation)
	}

	chatIDs, err := s.memberRepo.ListChatIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.chatRepo.Summaries(ctx, userID, chatIDs)
}

// EnsureSavedChat возвращает чат "избранного" пользователя, создавая его
// при первом обращении. Идемпотентно: второй вызов отдает тот же чат.
func (s *chatService) EnsureSavedChat(ctx context.Context, userID uint) (*model.Chat, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: userID cannot be zero", ErrValidation)
	}

	existing, err := s.chatRepo.FindSavedForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	chat := &model.Chat{
		Type:      model.ChatTypeSaved,
		Name:      savedChatName,
		CreatedBy: userID,
	}
	if err := s.chatRepo.Create(ctx, chat, nil); err != nil {
		return nil, err
	}

	return chat, nil
}

// AddMember добавляет участника. Повторное добавление — no-op,
// заблокированная строка остается заблокированной.
func (s *chatService) AddMember(ctx context.Context, chatID, actorID, userID uint) error {
	if chatID == 0 || actorID == 0 || userID == 0 {
		return fmt.Errorf("%w: chatID, actorID and userID are required", ErrValidation)
	}

	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: chat %d", ErrNotFound, chatID)
		}
		return err
	}

	if chat.Type == model.ChatTypeSaved {
		return fmt.Errorf("%w: saved chat has exactly one member", ErrValidation)
	}

	active, err := s.memberRepo.IsActiveMember(ctx, chatID, actorID)
	if err != nil {
		return err
	}
	if !active {
		return fmt.Errorf("%w: user %d in chat %d", ErrNotMember, actorID, chatID)
	}

	return s.memberRepo.Add(ctx, &model.ChatMember{
		ChatID: chatID,
		UserID: userID,
		Role:   model.RoleMember,
	})
}
