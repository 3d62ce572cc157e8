package repository

import (
	"context"
	"tush00nka/bbbab_chats/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MembershipRepository interface {
	Add(ctx context.Context, member *model.ChatMember) error
	IsActiveMember(ctx context.Context, chatID, userID uint) (bool, error)
	ListChatIDs(ctx context.Context, userID uint) ([]uint, error)
}

type membershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

// Add вставляет строку членства. Повторная вставка той же пары — no-op:
// существующая строка не трогается, заблокированная остаётся заблокированной.
func (r *membershipRepository) Add(ctx context.Context, member *model.ChatMember) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(member).Error
}

func (r *membershipRepository) IsActiveMember(ctx context.Context, chatID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ChatMember{}).
		Where("chat_id = ? AND user_id = ? AND is_blocked = FALSE", chatID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *membershipRepository) ListChatIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.ChatMember{}).
		Where("user_id = ? AND is_blocked = FALSE", userID).
		Pluck("chat_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
