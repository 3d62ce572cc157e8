package model

import "time"

const (
	ChatTypeDirect = "direct"
	ChatTypeGroup  = "group"
	ChatTypeSaved  = "saved"
)

type Chat struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"type:varchar(16);default:'direct'" json:"type"` // direct, group, saved
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url"`
	CreatedBy uint      `gorm:"index" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`

	Members  []ChatMember `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE" json:"-"`
	Messages []Message    `gorm:"foreignKey:ChatID;constraint:OnDelete:CASCADE" json:"-"`
}

const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// ChatMember связывает пользователя с чатом. Блокировка — мягкое удаление,
// строка не удаляется, чтобы история оставалась доступной.
type ChatMember struct {
	ChatID    uint      `gorm:"primaryKey;autoIncrement:false" json:"chat_id"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Role      string    `gorm:"type:varchar(16);default:'member'" json:"role"` // owner, member
	IsBlocked bool      `gorm:"default:false" json:"is_blocked"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatSummary строка выдачи списка чатов для пользователя.
type ChatSummary struct {
	ID          uint      `json:"id"`
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	AvatarURL   string    `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
	LastMessage *string   `json:"last_message"`
	UnreadCount int64     `json:"unread_count"`
}
