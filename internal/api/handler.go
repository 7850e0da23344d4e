package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ovn531/faisal/internal/conversation"
	"github.com/ovn531/faisal/internal/db"
	"github.com/ovn531/faisal/internal/llm"
	"github.com/ovn531/faisal/internal/models"
)

type Handler struct {
	svc    *conversation.Service
	logger *zap.Logger
}

func NewHandler(svc *conversation.Service, logger *zap.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger,
	}
}

// Register wires the /api routes onto the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/", h.Root)
	mux.HandleFunc("POST /api/chats", h.CreateChat)
	mux.HandleFunc("GET /api/chats", h.ListChats)
	mux.HandleFunc("GET /api/chats/{id}", h.GetChat)
	mux.HandleFunc("DELETE /api/chats/{id}", h.DeleteChat)
	mux.HandleFunc("POST /api/chats/{id}/messages", h.SendMessage)
	mux.HandleFunc("PUT /api/chats/{id}/title", h.RenameChat)
}

type CreateChatRequest struct {
	Title string `json:"title"`
}

type MessageRequest struct {
	Content string `json:"content"`
}

type RenameRequest struct {
	Title string `json:"title"`
}

// ChatResponse mirrors the shape the web frontend expects.
type ChatResponse struct {
	Success bool         `json:"success"`
	Chat    *models.Chat `json:"chat,omitempty"`
	Message string       `json:"message,omitempty"`
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "فيصل - مساعد الطلاب الذكي"})
}

func (h *Handler) CreateChat(w http.ResponseWriter, r *http.Request) {
	var req CreateChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	chat, err := h.svc.Create(r.Context(), req.Title)
	if err != nil {
		h.fail(w, r, "Failed to create chat", err)
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{Success: true, Chat: chat})
}

func (h *Handler) ListChats(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeDetail(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	chats, err := h.svc.List(r.Context(), limit)
	if err != nil {
		h.fail(w, r, "Failed to list chats", err)
		return
	}
	writeJSON(w, http.StatusOK, chats)
}

func (h *Handler) GetChat(w http.ResponseWriter, r *http.Request) {
	chat, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, "Failed to fetch chat", err)
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

func (h *Handler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, "Failed to delete chat", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Chat deleted successfully"})
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	chat, err := h.svc.Send(r.Context(), r.PathValue("id"), req.Content)
	if err != nil {
		h.fail(w, r, "Failed to process message", err)
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

func (h *Handler) RenameChat(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.svc.Rename(r.Context(), r.PathValue("id"), req.Title); err != nil {
		h.fail(w, r, "Failed to update title", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Title updated successfully"})
}

// fail logs the error and maps it to a status a client can act on:
// missing chat, bad input, id collision and provider failure each get a
// distinct code.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.Error(msg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))

	switch {
	case errors.Is(err, db.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "Chat not found")
	case errors.Is(err, models.ErrValidation):
		writeDetail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, db.ErrConflict):
		writeDetail(w, http.StatusConflict, "Chat already exists")
	case errors.Is(err, llm.ErrUpstream):
		writeDetail(w, http.StatusBadGateway, "AI backend unavailable")
	default:
		writeDetail(w, http.StatusInternalServerError, msg)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
