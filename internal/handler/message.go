package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"
	"tush00nka/bbbab_chats/internal/pkg/httputils"
	"tush00nka/bbbab_chats/internal/pkg/identity"
	"tush00nka/bbbab_chats/internal/service"

	"github.com/gorilla/mux"
)

type MessageHandler struct {
	messageService  service.MessageService
	presenceService service.PresenceService
}

func NewMessageHandler(messageService service.MessageService, presenceService service.PresenceService) *MessageHandler {
	return &MessageHandler{messageService: messageService, presenceService: presenceService}
}

func (h *MessageHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/chat/{id}/messages", h.getMessages).Methods("GET", "OPTIONS")
	router.HandleFunc("/chat/{id}/messages", h.sendMessage).Methods("POST", "OPTIONS")
	router.HandleFunc("/chat/{id}/messages", h.clearChat).Methods("DELETE", "OPTIONS")
	router.HandleFunc("/message/{id}", h.editMessage).Methods("PATCH", "OPTIONS")
}

type MessagesResponse struct {
	Messages []service.MessageView `json:"messages"`
}

// @Summary Get messages
// @Description Chat messages in send order; the caller's unread messages are marked read
// @ID get-messages
// @Produce json
// @Param X-User-Id header string true "Acting user"
// @Param id path int true "Chat ID"
// @Success 200 {object} MessagesResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /chat/{id}/messages [get]
func (h *MessageHandler) getMessages(w http.ResponseWriter, r *http.Request) {
	userID, err := identity.FromRequest(r)
	if err != nil {
		httputils.ResponseError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	chatID, err := chatIDFromPath(r)
	if err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "failed to parse chat ID")
		return
	}

	messages, err := h.messageService.List(r.Context(), chatID, userID)
	if err != nil {
		responseServiceError(w, err)
		return
	}

	h.presenceService.Touch(r.Context(), chatID, userID)

	httputils.ResponseJSON(w, http.StatusOK, MessagesResponse{Messages: messages})
}

type sendMessageRequest struct {
	Content     string  `json:"content"`
	MessageType string  `json:"message_type"`
	FileURL     *string `json:"file_url"`
	FileData    string  `json:"file_data"` // base64
	FileType    string  `json:"file_type"`
	Duration    *int    `json:"duration"`
	ReplyTo     *uint   `json:"reply_to"`
}

type SendMessageResponse struct {
	Success   bool      `json:"success"`
	MessageID uint      `json:"message_id"`
	CreatedAt time.Time `json:"created_at"`
}

// @Summary Send message
// @Description Send a message, uploading the attachment first if file_data is present
// @ID send-message
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Acting user"
// @Param id path int true "Chat ID"
// @Param messageData body sendMessageRequest true "Message data"
// @Success 201 {object} SendMessageResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 502 {object} response.ErrorResponse
// @Router /chat/{id}/messages [post]
func (h *MessageHandler) sendMessage(w http.ResponseWriter, r *http.Request) {
	userID, err := identity.FromRequest(r)
	if err != nil {
		httputils.ResponseError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	chatID, err := chatIDFromPath(r)
	if err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "failed to parse chat ID")
		return
	}

	var request sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "invalid request format")
		return
	}

	input := service.SendMessageInput{
		Content:     request.Content,
		MessageType: request.MessageType,
		FileURL:     request.FileURL,
		FileType:    request.FileType,
		Duration:    request.Duration,
		ReplyTo:     request.ReplyTo,
	}

	if request.FileData != "" {
		data, err := base64.StdEncoding.DecodeString(request.FileData)
		if err != nil {
			httputils.ResponseError(w, http.StatusBadRequest, "file_data is not valid base64")
			return
		}
		input.FileData = data
	}

	msg, err := h.messageService.Send(r.Context(), chatID, userID, input)
	if err != nil {
		responseServiceError(w, err)
		return
	}

	httputils.ResponseJSON(w, http.StatusCreated, SendMessageResponse{
		Success:   true,
		MessageID: msg.ID,
		CreatedAt: msg.CreatedAt,
	})
}

// @Summary Clear chat
// @Description Blank the acting user's own messages in the chat; rows are kept
// @ID clear-chat
// @Produce json
// @Param X-User-Id header string true "Acting user"
// @Param id path int true "Chat ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /chat/{id}/messages [delete]
func (h *MessageHandler) clearChat(w http.ResponseWriter, r *http.Request) {
	userID, err := identity.FromRequest(r)
	if err != nil {
		httputils.ResponseError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	chatID, err := chatIDFromPath(r)
	if err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "failed to parse chat ID")
		return
	}

	if err := h.messageService.Clear(r.Context(), chatID, userID); err != nil {
		responseServiceError(w, err)
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// @Summary Edit message
// @Description Apply a partial edit to the sender's own message
// @ID edit-message
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Acting user"
// @Param id path int true "Message ID"
// @Param patch body service.MessagePatch true "Fields to change"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /message/{id} [patch]
func (h *MessageHandler) editMessage(w http.ResponseWriter, r *http.Request) {
	userID, err := identity.FromRequest(r)
	if err != nil {
		httputils.ResponseError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	messageID, err := chatIDFromPath(r)
	if err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "failed to parse message ID")
		return
	}

	var patch service.MessagePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "invalid request format")
		return
	}

	if err := h.messageService.Edit(r.Context(), messageID, userID, patch); err != nil {
		responseServiceError(w, err)
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
