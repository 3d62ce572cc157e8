package repository

import (
	"context"
	"errors"
	"tush00nka/bbbab_chats/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatRepository interface {
	Create(ctx context.Context, chat *model.Chat, memberIDs []uint) error
	GetByID(ctx context.Context, chatID uint) (*model.Chat, error)
	FindSavedForUser(ctx context.Context, userID uint) (*model.Chat, error)
	Summaries(ctx context.Context, viewerID uint, chatIDs []uint) ([]model.ChatSummary, error)
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

// Create создает чат и членства одной транзакцией: чат без хотя бы
// владельца существовать не должен. Дубликаты в memberIDs не ошибка.
func (r *chatRepository) Create(ctx context.Context, chat *model.Chat, memberIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(chat).Error; err != nil {
			return err
		}

		owner := model.ChatMember{
			ChatID: chat.ID,
			UserID: chat.CreatedBy,
			Role:   model.RoleOwner,
		}
		if err := tx.Create(&owner).Error; err != nil {
			return err
		}

		for _, userID := range memberIDs {
			if userID == chat.CreatedBy {
				continue
			}
			member := model.ChatMember{
				ChatID: chat.ID,
				UserID: userID,
				Role:   model.RoleMember,
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&member).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *chatRepository) GetByID(ctx context.Context, chatID uint) (*model.Chat, error) {
	var chat model.Chat
	if err := r.db.WithContext(ctx).First(&chat, chatID).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

// FindSavedForUser возвращает чат "избранного" пользователя, nil если его нет.
func (r *chatRepository) FindSavedForUser(ctx context.Context, userID uint) (*model.Chat, error) {
	var chat model.Chat
	err := r.db.WithContext(ctx).
		Joins("JOIN chat_members cm ON cm.chat_id = chats.id").
		Where("chats.type = ? AND cm.user_id = ?", model.ChatTypeSaved, userID).
		First(&chat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &chat, nil
}

// Summaries отдает чаты из chatIDs с последним сообщением и числом
// непрочитанных для viewerID. Членство резолвится до вызова; непрочитанные
// считаются на каждый запрос, нигде не хранятся.
func (r *chatRepository) Summaries(ctx context.Context, viewerID uint, chatIDs []uint) ([]model.ChatSummary, error) {
	if len(chatIDs) == 0 {
		return []model.ChatSummary{}, nil
	}

	var summaries []model.ChatSummary
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.id, c.type, c.name, c.avatar_url, c.created_at,
		       (SELECT content FROM messages WHERE chat_id = c.id ORDER BY id DESC LIMIT 1) AS last_message,
		       (SELECT COUNT(*) FROM messages WHERE chat_id = c.id AND is_read = FALSE AND sender_id <> ?) AS unread_count
		FROM chats c
		WHERE c.id IN ?
		ORDER BY c.created_at DESC
	`, viewerID, chatIDs).Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}
