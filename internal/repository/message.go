package repository

import (
	"context"
	"tush00nka/bbbab_chats/internal/model"

	"gorm.io/gorm"
)

type MessageRepository interface {
	Append(ctx context.Context, msg *model.Message) error
	ListAndMarkRead(ctx context.Context, chatID, readerID uint) ([]model.Message, error)
	GetByID(ctx context.Context, messageID uint) (*model.Message, error)
	ExistsInChat(ctx context.Context, messageID, chatID uint) (bool, error)
	ClearBySender(ctx context.Context, chatID, senderID uint) error
	ApplyPatch(ctx context.Context, messageID uint, assignments map[string]any) error
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Append вставляет сообщение; id назначает БД, он монотонно растет,
// порядок по id совпадает с порядком коммита.
func (r *messageRepository) Append(ctx context.Context, msg *model.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListAndMarkRead в одной транзакции снимает срез сообщений чата по
// возрастанию id и помечает прочитанными все чужие непрочитанные.
// Срез отражает состояние до пометки. Пометка ограничена верхним id
// среза: на READ COMMITTED UPDATE видит строки, закоммиченные после
// SELECT, и без границы пометил бы сообщение, не попавшее ни в один срез.
func (r *messageRepository) ListAndMarkRead(ctx context.Context, chatID, readerID uint) ([]model.Message, error) {
	var messages []model.Message

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", chatID).Order("id ASC").Find(&messages).Error; err != nil {
			return err
		}

		if len(messages) == 0 {
			return nil
		}

		return tx.Model(&model.Message{}).
			Where("chat_id = ? AND sender_id <> ? AND is_read = FALSE AND id <= ?",
				chatID, readerID, messages[len(messages)-1].ID).
			Update("is_read", true).Error
	})
	if err != nil {
		return nil, err
	}

	return messages, nil
}

func (r *messageRepository) GetByID(ctx context.Context, messageID uint) (*model.Message, error) {
	var msg model.Message
	if err := r.db.WithContext(ctx).First(&msg, messageID).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepository) ExistsInChat(ctx context.Context, messageID, chatID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("id = ? AND chat_id = ?", messageID, chatID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ClearBySender опустошает сообщения отправителя, не удаляя строки.
// Сообщения других участников и реакции не трогаем.
func (r *messageRepository) ClearBySender(ctx context.Context, chatID, senderID uint) error {
	return r.db.WithContext(ctx).Model(&model.Message{}).
		Where("chat_id = ? AND sender_id = ?", chatID, senderID).
		Updates(map[string]any{
			"content":      "",
			"message_type": model.MessageTypeText,
		}).Error
}

func (r *messageRepository) ApplyPatch(ctx context.Context, messageID uint, assignments map[string]any) error {
	return r.db.WithContext(ctx).Model(&model.Message{}).
		Where("id = ?", messageID).
		Updates(assignments).Error
}
