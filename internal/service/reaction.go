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

type reactionService struct {
	reactionRepo repository.ReactionRepository
	messageRepo  repository.MessageRepository
	memberRepo   repository.MembershipRepository
}

func NewReactionService(
	reactionRepo repository.ReactionRepository,
	messageRepo repository.MessageRepository,
	memberRepo repository.MembershipRepository,
) ReactionService {
	return &reactionService{
		reactionRepo: reactionRepo,
		messageRepo:  messageRepo,
		memberRepo:   memberRepo,
	}
}

func (s *reactionService) resolveChat(ctx context.Context, messageID, userID uint) (uint, error) {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("%w: message %d", ErrNotFound, messageID)
		}
		return 0, err
	}

	active, err := s.memberRepo.IsActiveMember(ctx, msg.ChatID, userID)
	if err != nil {
		return 0, err
	}
	if !active {
		return 0, fmt.Errorf("%w: user %d in chat %d", ErrNotMember, userID, msg.ChatID)
	}

	return msg.ChatID, nil
}

// React ставит реакцию. Повтор той же тройки (message, user, emoji) — no-op.
func (s *reactionService) React(ctx context.Context, messageID, userID uint, emoji string) error {
	if messageID == 0 || userID == 0 {
		return fmt.Errorf("%w: messageID and userID are required", ErrValidation)
	}
	if strings.TrimSpace(emoji) == "" {
		return fmt.Errorf("%w: emoji is required", ErrValidation)
	}

	if _, err := s.resolveChat(ctx, messageID, userID); err != nil {
		return err
	}

	return s.reactionRepo.Add(ctx, &model.MessageReaction{
		MessageID: messageID,
		UserID:    userID,
		Emoji:     emoji,
	})
}

func (s *reactionService) Summarize(ctx context.Context, messageID, requesterID uint) ([]model.ReactionCount, error) {
	if messageID == 0 || requesterID == 0 {
		return nil, fmt.Errorf("%w: messageID and requesterID are required", ErrValidation)
	}

	if _, err := s.resolveChat(ctx, messageID, requesterID); err != nil {
		return nil, err
	}

	return s.reactionRepo.Summarize(ctx, messageID)
}
