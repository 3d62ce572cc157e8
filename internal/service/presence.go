package service

import (
	"context"
	"fmt"
	"log"
	"tush00nka/bbbab_chats/internal/repository"
)

type presenceService struct {
	presenceRepo repository.PresenceRepository
	memberRepo   repository.MembershipRepository
}

func NewPresenceService(presenceRepo repository.PresenceRepository, memberRepo repository.MembershipRepository) PresenceService {
	return &presenceService{presenceRepo: presenceRepo, memberRepo: memberRepo}
}

// Touch отмечает, что пользователь смотрит чат. Ошибки redis не роняют
// запрос: присутствие — вспомогательный сигнал.
func (s *presenceService) Touch(ctx context.Context, chatID, userID uint) error {
	if chatID == 0 || userID == 0 {
		return nil
	}

	if err := s.presenceRepo.Touch(ctx, chatID, userID); err != nil {
		log.Printf("failed to touch presence for chat %d: %v", chatID, err)
	}

	return nil
}

func (s *presenceService) Viewers(ctx context.Context, chatID, requesterID uint) ([]uint, error) {
	if chatID == 0 || requesterID == 0 {
		return nil, fmt.Errorf("%w: chatID and requesterID are required", ErrValidation)
	}

	active, err := s.memberRepo.IsActiveMember(ctx, chatID, requesterID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, fmt.Errorf("%w: user %d in chat %d", ErrNotMember, requesterID, chatID)
	}

	return s.presenceRepo.Viewers(ctx, chatID)
}
