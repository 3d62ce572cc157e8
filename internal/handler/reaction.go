package handler

import (
	"encoding/json"
	"net/http"
	"tush00nka/bbbab_chats/internal/model"
	"tush00nka/bbbab_chats/internal/pkg/httputils"
	"tush00nka/bbbab_chats/internal/pkg/identity"
	"tush00nka/bbbab_chats/internal/service"

	"github.com/gorilla/mux"
)

type ReactionHandler struct {
	reactionService service.ReactionService
}

func NewReactionHandler(reactionService service.ReactionService) *ReactionHandler {
	return &ReactionHandler{reactionService: reactionService}
}

func (h *ReactionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/message/{id}/reactions", h.addReaction).Methods("POST", "OPTIONS")
	router.HandleFunc("/message/{id}/reactions", h.getReactions).Methods("GET", "OPTIONS")
}

type addReactionRequest struct {
	Emoji string `json:"emoji"`
}

// @Summary Add reaction
// @Description React to a message with an emoji; repeating the same reaction is a no-op
// @ID add-reaction
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Acting user"
// @Param id path int true "Message ID"
// @Param reactionData body addReactionRequest true "Reaction data"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /message/{id}/reactions [post]
func (h *ReactionHandler) addReaction(w http.ResponseWriter, r *http.Request) {
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

	var request addReactionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		httputils.ResponseError(w, http.StatusBadRequest, "invalid request format")
		return
	}

	if err := h.reactionService.React(r.Context(), messageID, userID, request.Emoji); err != nil {
		responseServiceError(w, err)
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

type ReactionsResponse struct {
	Reactions []model.ReactionCount `json:"reactions"`
}

// @Summary Reaction summary
// @Description Per-emoji reaction counts for a message, in first-seen emoji order
// @ID get-reactions
// @Produce json
// @Param X-User-Id header string true "Acting user"
// @Param id path int true "Message ID"
// @Success 200 {object} ReactionsResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /message/{id}/reactions [get]
func (h *ReactionHandler) getReactions(w http.ResponseWriter, r *http.Request) {
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

	counts, err := h.reactionService.Summarize(r.Context(), messageID, userID)
	if err != nil {
		responseServiceError(w, err)
		return
	}

	httputils.ResponseJSON(w, http.StatusOK, ReactionsResponse{Reactions: counts})
}
