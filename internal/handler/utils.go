package handler

import (
	"errors"
	"net/http"
	"tush00nka/bbbab_chats/internal/pkg/httputils"
	"tush00nka/bbbab_chats/internal/service"
)

type PongResponse struct {
	Message string `json:"message"`
}

// Ping
// @Summary Пингануть сервер
// @Description Пингануть сервер
// @Tags system
// @Produce json
// @Success 200 {object} PongResponse
// @Failure 404
// @Router /ping [get]
func Ping(w http.ResponseWriter, r *http.Request) {
	httputils.ResponseJSON(w, 200, PongResponse{Message: "Pong"})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotMember):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAttachmentStore):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func responseServiceError(w http.ResponseWriter, err error) {
	httputils.ResponseError(w, statusForError(err), err.Error())
}
