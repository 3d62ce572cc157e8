package repository

import (
	"context"
	"tush00nka/bbbab_chats/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReactionRepository interface {
	Add(ctx context.Context, reaction *model.MessageReaction) error
	Summarize(ctx context.Context, messageID uint) ([]model.ReactionCount, error)
	SummarizeByChat(ctx context.Context, chatID uint) (map[uint][]model.ReactionCount, error)
}

type reactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// Add вставляет реакцию; дубликат тройки (message, user, emoji) — no-op.
func (r *reactionRepository) Add(ctx context.Context, reaction *model.MessageReaction) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(reaction).Error
}

// Summarize группирует реакции по emoji. Порядок — по времени первой
// реакции этим emoji, чтобы выдача была детерминированной.
func (r *reactionRepository) Summarize(ctx context.Context, messageID uint) ([]model.ReactionCount, error) {
	var counts []model.ReactionCount
	err := r.db.WithContext(ctx).Model(&model.MessageReaction{}).
		Select("emoji, COUNT(*) AS count").
		Where("message_id = ?", messageID).
		Group("emoji").
		Order("MIN(created_at) ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

type chatReactionRow struct {
	MessageID uint
	Emoji     string
	Count     int64
}

// SummarizeByChat считает реакции всех сообщений чата одним запросом,
// чтобы листинг не ходил в БД на каждое сообщение.
func (r *reactionRepository) SummarizeByChat(ctx context.Context, chatID uint) (map[uint][]model.ReactionCount, error) {
	var rows []chatReactionRow
	err := r.db.WithContext(ctx).
		Table("message_reactions r").
		Select("r.message_id, r.emoji, COUNT(*) AS count").
		Joins("JOIN messages m ON m.id = r.message_id").
		Where("m.chat_id = ?", chatID).
		Group("r.message_id, r.emoji").
		Order("r.message_id, MIN(r.created_at) ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[uint][]model.ReactionCount, len(rows))
	for _, row := range rows {
		result[row.MessageID] = append(result[row.MessageID], model.ReactionCount{
			Emoji: row.Emoji,
			Count: row.Count,
		})
	}
	return result, nil
}
