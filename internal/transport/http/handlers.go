package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"dmserver/internal/domain"
	"dmserver/internal/dto"
	"dmserver/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	auth     *service.AuthService
	chats    *service.ChatService
	messages *service.MessageService
	delivery *service.Delivery
}

func NewHandler(auth *service.AuthService, chats *service.ChatService, messages *service.MessageService, delivery *service.Delivery) *Handler {
	return &Handler{auth: auth, chats: chats, messages: messages, delivery: delivery}
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "bad request")
		return
	}
	res, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "bad request")
		return
	}
	res, err := h.auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleListChats(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	chats, err := h.chats.ListForUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]dto.ChatResponse, 0, len(chats))
	for _, c := range chats {
		out = append(out, dto.NewChatResponse(c.Chat, c.LastMessage))
	}
	writeJSON(w, http.StatusOK, map[string]any{"chats": out})
}

func (h *Handler) handleCreateChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req dto.CreateChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "bad request")
		return
	}
	if strings.TrimSpace(req.OtherUserID) == "" {
		writeMessage(w, http.StatusBadRequest, "otherUserId is required")
		return
	}
	otherID, err := uuid.Parse(strings.TrimSpace(req.OtherUserID))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid otherUserId")
		return
	}
	chat, err := h.chats.ResolveOrCreate(r.Context(), userID, otherID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"chat": dto.NewChatResponse(*chat, nil)})
}

func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req dto.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "bad request")
		return
	}
	if strings.TrimSpace(req.ChatID) == "" || strings.TrimSpace(req.Content) == "" {
		writeMessage(w, http.StatusBadRequest, "chatId and content are required")
		return
	}
	chatID, err := uuid.Parse(strings.TrimSpace(req.ChatID))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid chatId")
		return
	}
	msg, err := h.delivery.Send(r.Context(), userID, chatID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": dto.NewMessageResponse(*msg)})
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	chatID, err := uuid.Parse(chi.URLParam(r, "chatID"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid chatId")
		return
	}
	chat, err := h.chats.Get(r.Context(), chatID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !chat.HasParticipant(userID) {
		writeError(w, domain.ErrNotParticipant)
		return
	}
	msgs, err := h.messages.ListOrdered(r.Context(), chatID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]dto.MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, dto.NewMessageResponse(m))
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": out})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeError maps domain errors onto the transport's status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrMissingField),
		errors.Is(err, domain.ErrSelfChat),
		errors.Is(err, domain.ErrEmptyContent):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotParticipant):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrChatNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrEmailTaken):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		writeMessage(w, status, "server error")
		return
	}
	writeMessage(w, status, err.Error())
}
