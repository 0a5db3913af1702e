package handlers

import (
	"context"
	"fmt"
	"net/http"

	"aimentor/models"
	"aimentor/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type ChatService interface {
	Process(ctx context.Context, learnerID, sessionID string, req *models.ChatRequest) (*models.Chat, error)
	List(ctx context.Context, learnerID string) ([]*models.Chat, error)
	Get(ctx context.Context, learnerID string, id int) (*models.Chat, error)
	Update(ctx context.Context, learnerID string, id int, req *models.UpdateChatRequest) (*models.Chat, error)
	Delete(ctx context.Context, learnerID string, id int) error
}

type ChatHandler struct {
	service  ChatService
	renderer Renderer
	logger   *zap.SugaredLogger
}

func NewChatHandler(service ChatService, renderer Renderer, logger *zap.SugaredLogger) *ChatHandler {
	return &ChatHandler{service: service, renderer: renderer, logger: logger}
}

func (h *ChatHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/chats", h.ListChats).Methods("GET")
	router.HandleFunc("/chats", h.ProcessChat).Methods("POST")
	router.HandleFunc("/chats/{id:[0-9]+}", h.GetChat).Methods("GET")
	router.HandleFunc("/chats/{id:[0-9]+}", h.UpdateChat).Methods("PATCH")
	router.HandleFunc("/chats/{id:[0-9]+}", h.DeleteChat).Methods("DELETE")
	router.HandleFunc("/chats/{id:[0-9]+}/pdf", h.ExportChat).Methods("GET")
}

func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.service.List(r.Context(), learnerIDFrom(r))
	if err != nil {
		writeServiceError(w, h.logger, err, "Chat", "Failed to list chats")
		return
	}
	writeJSONResponse(w, http.StatusOK, chats)
}

// ProcessChat starts a chat or continues an existing one when chatId is set.
func (h *ChatHandler) ProcessChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	chat, err := h.service.Process(r.Context(), learnerIDFrom(r), sessionIDFrom(r), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Chat", "Failed to process chat")
		return
	}
	writeJSONResponse(w, http.StatusOK, chat)
}

func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "chat")
	if !ok {
		return
	}

	chat, err := h.service.Get(r.Context(), learnerIDFrom(r), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Chat", "Failed to get chat")
		return
	}
	writeJSONResponse(w, http.StatusOK, chat)
}

func (h *ChatHandler) UpdateChat(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "chat")
	if !ok {
		return
	}

	var req models.UpdateChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	chat, err := h.service.Update(r.Context(), learnerIDFrom(r), id, &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Chat", "Failed to update chat")
		return
	}
	writeJSONResponse(w, http.StatusOK, chat)
}

func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "chat")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), learnerIDFrom(r), id); err != nil {
		writeServiceError(w, h.logger, err, "Chat", "Failed to delete chat")
		return
	}
	writeSuccess(w)
}

func (h *ChatHandler) ExportChat(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "chat")
	if !ok {
		return
	}

	chat, err := h.service.Get(r.Context(), learnerIDFrom(r), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Chat", "Failed to export chat")
		return
	}
	streamPDF(w, h.logger, h.renderer, services.ChatRenderSpec(chat), fmt.Sprintf("chat-%d.pdf", id))
}
