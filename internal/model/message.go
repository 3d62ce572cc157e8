package model

import "time"

const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeVoice = "voice"
)

type Message struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ChatID      uint      `gorm:"index;not null" json:"chat_id"`
	SenderID    uint      `gorm:"index;not null" json:"sender_id"`
	Content     string    `gorm:"type:text" json:"content"`
	MessageType string    `gorm:"type:varchar(16);default:'text'" json:"message_type"` // text, image, voice
	FileURL     *string   `json:"file_url"`
	Duration    *int      `json:"duration"` // секунды, только для голосовых
	ReplyTo     *uint     `gorm:"index" json:"reply_to"`
	IsRead      bool      `gorm:"default:false" json:"is_read"`
	IsEdited    bool      `gorm:"default:false" json:"is_edited"`
	// created_at ставит БД в момент вставки, как и id: иначе при двух
	// конкурентных отправителях порядок id и порядок времени могут разойтись.
	CreatedAt time.Time `gorm:"autoCreateTime:false;default:now()" json:"created_at"`

	Reactions []MessageReaction `gorm:"foreignKey:MessageID" json:"-"`
}

// MessageReaction уникальна по тройке (message, user, emoji):
// повторная реакция тем же emoji — no-op, но разные emoji складываются.
type MessageReaction struct {
	MessageID uint      `gorm:"primaryKey;autoIncrement:false" json:"message_id"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Emoji     string    `gorm:"primaryKey;type:varchar(16)" json:"emoji"`
	CreatedAt time.Time `gorm:"autoCreateTime:false;default:now()" json:"created_at"`
}

type ReactionCount struct {
	Emoji string `json:"emoji"`
	Count int64  `json:"count"`
}
