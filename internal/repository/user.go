package repository

import (
	"context"
	"tush00nka/bbbab_chats/internal/model"

	"gorm.io/gorm"
)

// UserRepository читает профили отправителей. Таблицей владеет
// подсистема профилей, здесь только чтение.
type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByIDs(ctx context.Context, ids []uint) (map[uint]model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return map[uint]model.User{}, nil
	}

	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}

	result := make(map[uint]model.User, len(users))
	for _, user := range users {
		user.EnsureDisplayName()
		result[user.ID] = user
	}
	return result, nil
}
