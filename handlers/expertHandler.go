package handlers

import (
	"context"
	"net/http"

	"aimentor/models"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type ExpertService interface {
	List(ctx context.Context, learnerID, query string) ([]*models.Expert, error)
	Get(ctx context.Context, learnerID string, id int) (*models.Expert, error)
	Create(ctx context.Context, learnerID string, req *models.ExpertRequest) (*models.Expert, error)
	Update(ctx context.Context, learnerID string, id int, req *models.UpdateExpertRequest) (*models.Expert, error)
	Delete(ctx context.Context, learnerID string, id int) error
}

type ExpertHandler struct {
	service ExpertService
	logger  *zap.SugaredLogger
}

func NewExpertHandler(service ExpertService, logger *zap.SugaredLogger) *ExpertHandler {
	return &ExpertHandler{service: service, logger: logger}
}

func (h *ExpertHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/experts", h.ListExperts).Methods("GET")
	router.HandleFunc("/experts", h.CreateExpert).Methods("POST")
	router.HandleFunc("/experts/{id:[0-9]+}", h.GetExpert).Methods("GET")
	router.HandleFunc("/experts/{id:[0-9]+}", h.UpdateExpert).Methods("PATCH")
	router.HandleFunc("/experts/{id:[0-9]+}", h.DeleteExpert).Methods("DELETE")
}

// ListExperts returns the learner's experts, fuzzy filtered by ?q= when given.
func (h *ExpertHandler) ListExperts(w http.ResponseWriter, r *http.Request) {
	experts, err := h.service.List(r.Context(), learnerIDFrom(r), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, h.logger, err, "Expert", "Failed to list experts")
		return
	}
	writeJSONResponse(w, http.StatusOK, experts)
}

func (h *ExpertHandler) GetExpert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "expert")
	if !ok {
		return
	}

	expert, err := h.service.Get(r.Context(), learnerIDFrom(r), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Expert", "Failed to get expert")
		return
	}
	writeJSONResponse(w, http.StatusOK, expert)
}

func (h *ExpertHandler) CreateExpert(w http.ResponseWriter, r *http.Request) {
	var req models.ExpertRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	expert, err := h.service.Create(r.Context(), learnerIDFrom(r), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Expert", "Failed to create expert")
		return
	}
	writeJSONResponse(w, http.StatusCreated, expert)
}

func (h *ExpertHandler) UpdateExpert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "expert")
	if !ok {
		return
	}

	var req models.UpdateExpertRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	expert, err := h.service.Update(r.Context(), learnerIDFrom(r), id, &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Expert", "Failed to update expert")
		return
	}
	writeJSONResponse(w, http.StatusOK, expert)
}

func (h *ExpertHandler) DeleteExpert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "expert")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), learnerIDFrom(r), id); err != nil {
		writeServiceError(w, h.logger, err, "Expert", "Failed to delete expert")
		return
	}
	writeSuccess(w)
}
