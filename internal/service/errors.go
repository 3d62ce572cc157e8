package service

import "errors"

// Ошибки сервисного слоя; handler'ы маппят их в HTTP-статусы через errors.Is.
var (
	// ErrNotMember — действующий пользователь не активный участник чата.
	ErrNotMember = errors.New("user is not an active chat member")
	// ErrNotFound — чат или сообщение не существует.
	ErrNotFound = errors.New("not found")
	// ErrValidation — структурно некорректный запрос.
	ErrValidation = errors.New("validation failed")
	// ErrAttachmentStore — объектное хранилище отклонило загрузку;
	// сообщение при этом не создается.
	ErrAttachmentStore = errors.New("attachment store failed")
)
