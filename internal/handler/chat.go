package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"tush00nka/bbbab_chats/internal/model"
	"tush00nka/bbbab_chats/internal/pkg/httputils"
	"tush00nka/bbbab_chats/internal/pkg/identity"
	"tush00nka/bbbab_chats/internal/service"

	"github.com/gorilla/mux"
)

type ChatHandler struct {
	chatService     service.ChatService
	presenceService service.PresenceService
}

func NewChatHandler(chatService service.ChatService, presenceService service.PresenceService) *ChatHandler {
	return &ChatHandler{chatService: chatService, presenceService: presenceService}
}

func (h *ChatHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/chats", h.listChats).Methods("GET", "OPTIONS")
	router.HandleFunc("/chats", h.createChat).Methods("POST", "OPTIONS")
	router.HandleFunc("/chats/saved", h.ensureSavedChat).Methods("POST", "OPTIONS")
	router.HandleFunc("/chat/{id}/members", h.addMember).Methods("POST", "OPTIONS")
	router.HandleFunc("/chat/{id}/online", h.chatViewers).Methods("GET", "OPTIONS")
}

type ChatListResponse struct {
	Chats []model.ChatSummary `json:"chats"`
}

// @Summary List chats
// @Description List the acting user's chats with last message and unread count
// @ID list-chats
// @Produce json
// @Param X-User-Id header string true "Acting user"
// @Success 200 {object} ChatListResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /chats [get]
func (h *ChatHandler) listChats(w http.ResponseWriter, r *http.Request) {
	userID, err := identity.FromRequest(r)
	if err != nil {
		httputils.ResponseError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	summaries, err := h.chatService.ListForUser(r.Context(), userID)
	if err != nil {
		responseServiceError(w, err)
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, ChatListResponse{Chats: summaries})
}

type createChatRequest struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Members []uint `json:"members"`
}

type CreateChatResponse struct {
	Success bool `json:"success"`
	ChatID  uint `json:"chat_id"`
}

// @Summary Create chat
// @Description Create a chat with the acting user as owner and the listed members
// @ID create-chat
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Acting user"
// @Param chatData body createChatRequest true "Chat data"
// @Success 201 {object} CreateChatResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /chats [post]
func (h *ChatHandler) createChat(w http.ResponseWriter, r *http.Request) {
	userID, err := identity.FromRequest(r)
	if err != nil {
		httputils.ResponseError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var request createChatRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "invalid request format")
		return
	}

	chat, err := h.chatService.Create(r.Context(), userID, request.Type, request.Name, request.Members)
	if err != nil {
		responseServiceError(w, err)
		return
	}

	httputils.ResponseJSON(w, http.StatusCreated, CreateChatResponse{Success: true, ChatID: chat.ID})
}

// @Summary Saved messages chat
// @Description Return the acting user's saved-messages chat, creating it on first call
// @ID ensure-saved-chat
// @Produce json
// @Param X-User-Id header string true "Acting user"
// @Success 200 {object} CreateChatResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /chats/saved [post]
func (h *ChatHandler) ensureSavedChat(w http.ResponseWriter, r *http.Request) {
	userID, err := identity.FromRequest(r)
	if err != nil {
		httputils.ResponseError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	chat, err := h.chatService.EnsureSavedChat(r.Context(), userID)
	if err != nil {
		responseServiceError(w, err)
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, CreateChatResponse{Success: true, ChatID: chat.ID})
}

type addMemberRequest struct {
	UserID uint `json:"user_id"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

// @Summary Add chat member
// @Description Add a user to a chat; re-adding an existing member is a no-op
// @ID add-member
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Acting user"
// @Param id path int true "Chat ID"
// @Param memberData body addMemberRequest true "Member data"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /chat/{id}/members [post]
func (h *ChatHandler) addMember(w http.ResponseWriter, r *http.Request) {
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

	var request addMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "invalid request format")
		return
	}

	if err := h.chatService.AddMember(r.Context(), chatID, userID, request.UserID); err != nil {
		responseServiceError(w, err)
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

type ViewersResponse struct {
	Viewers []uint `json:"viewers"`
}

// @Summary Chat viewers
// @Description List users currently viewing the chat
// @ID chat-viewers
// @Produce json
// @Param X-User-Id header string true "Acting user"
// @Param id path int true "Chat ID"
// @Success 200 {object} ViewersResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /chat/{id}/online [get]
func (h *ChatHandler) chatViewers(w http.ResponseWriter, r *http.Request) {
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

	viewers, err := h.presenceService.Viewers(r.Context(), chatID, userID)
	if err != nil {
		responseServiceError(w, err)
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, ViewersResponse{Viewers: viewers})
}

func chatIDFromPath(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
