package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"tush00nka/bbbab_chats/internal/model"
	"tush00nka/bbbab_chats/internal/repository"

	"gorm.io/gorm"
)

// SendMessageInput — содержимое отправки. FileData, если задано,
// загружается в объектное хранилище до вставки строки сообщения.
type SendMessageInput struct {
	Content     string
	MessageType string
	FileData    []byte
	FileType    string
	FileURL     *string
	Duration    *int
	ReplyTo     *uint
}

// MessageView — сообщение вместе с метаданными отправителя и сводкой
// реакций, как его видит листинг.
type MessageView struct {
	ID             uint                  `json:"id"`
	SenderID       uint                  `json:"sender_id"`
	SenderUsername string                `json:"sender_username"`
	SenderName     string                `json:"sender_name"`
	SenderAvatar   string                `json:"sender_avatar"`
	Content        string                `json:"content"`
	MessageType    string                `json:"message_type"`
	FileURL        *string               `json:"file_url"`
	Duration       *int                  `json:"duration"`
	ReplyTo        *uint                 `json:"reply_to"`
	IsRead         bool                  `json:"is_read"`
	IsEdited       bool                  `json:"is_edited"`
	CreatedAt      time.Time             `json:"created_at"`
	Reactions      []model.ReactionCount `json:"reactions"`
}

// MessagePatch перечисляет изменяемые поля; применяется только то,
// что задано. Никакой склейки имен колонок из запроса.
type MessagePatch struct {
	Content  *string `json:"content"`
	Duration *int    `json:"duration"`
}

// Assignments собирает присваивания для заданных полей патча.
func (p MessagePatch) Assignments() map[string]any {
	assignments := make(map[string]any)
	if p.Content != nil {
		assignments["content"] = *p.Content
	}
	if p.Duration != nil {
		assignments["duration"] = *p.Duration
	}
	return assignments
}

type messageService struct {
	messageRepo    repository.MessageRepository
	memberRepo     repository.MembershipRepository
	chatRepo       repository.ChatRepository
	reactionRepo   repository.ReactionRepository
	userRepo       repository.UserRepository
	attachmentServ AttachmentService
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	memberRepo repository.MembershipRepository,
	chatRepo repository.ChatRepository,
	reactionRepo repository.ReactionRepository,
	userRepo repository.UserRepository,
	attachmentServ AttachmentService,
) MessageService {
	return &messageService{
		messageRepo:    messageRepo,
		memberRepo:     memberRepo,
		chatRepo:       chatRepo,
		reactionRepo:   reactionRepo,
		userRepo:       userRepo,
		attachmentServ: attachmentServ,
	}
}

func (s *messageService) requireActiveMember(ctx context.Context, chatID, userID uint) error {
	if _, err := s.chatRepo.GetByID(ctx, chatID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: chat %d", ErrNotFound, chatID)
		}
		return err
	}

	active, err := s.memberRepo.IsActiveMember(ctx, chatID, userID)
	if err != nil {
		return err
	}
	if !active {
		return fmt.Errorf("%w: user %d in chat %d", ErrNotMember, userID, chatID)
	}

	return nil
}

// Send добавляет сообщение в чат. Вложение загружается до вставки строки:
// при отказе хранилища сообщение не создается вовсе.
func (s *messageService) Send(ctx context.Context, chatID, senderID uint, input SendMessageInput) (*model.Message, error) {
	if chatID == 0 || senderID == 0 {
		return nil, fmt.Errorf("%w: chatID and senderID are required", ErrValidation)
	}

	if strings.TrimSpace(input.Content) == "" && len(input.FileData) == 0 && input.FileURL == nil {
		return nil, fmt.Errorf("%w: message needs content or attachment", ErrValidation)
	}

	if err := s.requireActiveMember(ctx, chatID, senderID); err != nil {
		return nil, err
	}

	if input.ReplyTo != nil {
		ok, err := s.messageRepo.ExistsInChat(ctx, *input.ReplyTo, chatID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: reply_to %d is not a message of chat %d", ErrValidation, *input.ReplyTo, chatID)
		}
	}

	fileURL := input.FileURL
	if len(input.FileData) > 0 {
		url, err := s.attachmentServ.Store(ctx, input.FileData, input.FileType)
		if err != nil {
			return nil, err
		}
		fileURL = &url
	}

	messageType := input.MessageType
	if messageType == "" {
		messageType = model.MessageTypeText
	}

	msg := &model.Message{
		ChatID:      chatID,
		SenderID:    senderID,
		Content:     input.Content,
		MessageType: messageType,
		FileURL:     fileURL,
		Duration:    input.Duration,
		ReplyTo:     input.ReplyTo,
	}

	if err := s.messageRepo.Append(ctx, msg); err != nil {
		return nil, err
	}

	return msg, nil
}

// List отдает срез сообщений чата по возрастанию id и помечает чужие
// сообщения прочитанными. Срез отражает состояние до пометки.
func (s *messageService) List(ctx context.Context, chatID, requesterID uint) ([]MessageView, error) {
	if chatID == 0 || requesterID == 0 {
		return nil, fmt.Errorf("%w: chatID and requesterID are required", ErrValidation)
	}

	if err := s.requireActiveMember(ctx, chatID, requesterID); err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.ListAndMarkRead(ctx, chatID, requesterID)
	if err != nil {
		return nil, err
	}

	reactions, err := s.reactionRepo.SummarizeByChat(ctx, chatID)
	if err != nil {
		return nil, err
	}

	senderIDs := make([]uint, 0, len(messages))
	seen := make(map[uint]bool)
	for _, msg := range messages {
		if !seen[msg.SenderID] {
			seen[msg.SenderID] = true
			senderIDs = append(senderIDs, msg.SenderID)
		}
	}

	senders, err := s.userRepo.FindByIDs(ctx, senderIDs)
	if err != nil {
		return nil, err
	}

	views := make([]MessageView, 0, len(messages))
	for _, msg := range messages {
		view := MessageView{
			ID:          msg.ID,
			SenderID:    msg.SenderID,
			Content:     msg.Content,
			MessageType: msg.MessageType,
			FileURL:     msg.FileURL,
			Duration:    msg.Duration,
			ReplyTo:     msg.ReplyTo,
			IsRead:      msg.IsRead,
			IsEdited:    msg.IsEdited,
			CreatedAt:   msg.CreatedAt,
			Reactions:   reactions[msg.ID],
		}
		if view.Reactions == nil {
			view.Reactions = []model.ReactionCount{}
		}
		if sender, ok := senders[msg.SenderID]; ok {
			view.SenderUsername = sender.Username
			view.SenderName = sender.DisplayName
			view.SenderAvatar = sender.AvatarURL
		}
		views = append(views, view)
	}

	return views, nil
}

// Clear опустошает сообщения запросившего в чате. Чужие сообщения
// и реакции не трогаются.
func (s *messageService) Clear(ctx context.Context, chatID, requesterID uint) error {
	if chatID == 0 || requesterID == 0 {
		return fmt.Errorf("%w: chatID and requesterID are required", ErrValidation)
	}

	if err := s.requireActiveMember(ctx, chatID, requesterID); err != nil {
		return err
	}

	return s.messageRepo.ClearBySender(ctx, chatID, requesterID)
}

// Edit меняет сообщение по явному патчу. Редактировать может только
// отправитель, и только пока он активный участник чата; правка
// поднимает флаг is_edited.
func (s *messageService) Edit(ctx context.Context, messageID, requesterID uint, patch MessagePatch) error {
	if messageID == 0 || requesterID == 0 {
		return fmt.Errorf("%w: messageID and requesterID are required", ErrValidation)
	}

	assignments := patch.Assignments()
	if len(assignments) == 0 {
		return fmt.Errorf("%w: patch has no fields", ErrValidation)
	}

	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: message %d", ErrNotFound, messageID)
		}
		return err
	}

	if msg.SenderID != requesterID {
		return fmt.Errorf("%w: only the sender can edit message %d", ErrNotMember, messageID)
	}

	if err := s.requireActiveMember(ctx, msg.ChatID, requesterID); err != nil {
		return err
	}

	assignments["is_edited"] = true

	return s.messageRepo.ApplyPatch(ctx, messageID, assignments)
}
