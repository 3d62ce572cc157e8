package model

// User принадлежит подсистеме профилей; здесь читаем только то,
// что нужно для отображения отправителя.
type User struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

func (u *User) EnsureDisplayName() {
	if u.DisplayName == "" {
		u.DisplayName = u.Username
	}
}
