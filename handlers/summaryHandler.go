package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"aimentor/models"
	"aimentor/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type SummaryService interface {
	Create(ctx context.Context, learnerID string, req *models.CreateSummaryRequest) (*models.Summary, error)
	List(ctx context.Context, learnerID string) ([]*models.Summary, error)
	Get(ctx context.Context, learnerID string, id int) (*models.Summary, error)
	Update(ctx context.Context, learnerID string, id int, req *models.UpdateSummaryRequest) (*models.Summary, error)
	Delete(ctx context.Context, learnerID string, id int) error
	Search(ctx context.Context, learnerID, query string, limit int) ([]*models.Summary, error)
}

type SummaryHandler struct {
	service  SummaryService
	renderer Renderer
	logger   *zap.SugaredLogger
}

func NewSummaryHandler(service SummaryService, renderer Renderer, logger *zap.SugaredLogger) *SummaryHandler {
	return &SummaryHandler{service: service, renderer: renderer, logger: logger}
}

func (h *SummaryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/summaries", h.ListSummaries).Methods("GET")
	router.HandleFunc("/summaries", h.CreateSummary).Methods("POST")
	router.HandleFunc("/summaries/search", h.SearchSummaries).Methods("GET")
	router.HandleFunc("/summaries/{id:[0-9]+}", h.GetSummary).Methods("GET")
	router.HandleFunc("/summaries/{id:[0-9]+}", h.UpdateSummary).Methods("PATCH")
	router.HandleFunc("/summaries/{id:[0-9]+}", h.DeleteSummary).Methods("DELETE")
	router.HandleFunc("/summaries/{id:[0-9]+}/pdf", h.ExportSummary).Methods("GET")
}

func (h *SummaryHandler) ListSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.List(r.Context(), learnerIDFrom(r))
	if err != nil {
		writeServiceError(w, h.logger, err, "Summary", "Failed to list summaries")
		return
	}
	writeJSONResponse(w, http.StatusOK, summaries)
}

func (h *SummaryHandler) CreateSummary(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSummaryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	summary, err := h.service.Create(r.Context(), learnerIDFrom(r), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Summary", "Failed to create summary")
		return
	}
	writeJSONResponse(w, http.StatusCreated, summary)
}

// SearchSummaries runs a semantic search over the learner's summaries.
// Query params: q (required), limit (optional).
func (h *SummaryHandler) SearchSummaries(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeErrorResponse(w, http.StatusBadRequest, "Query parameter q is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeErrorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	summaries, err := h.service.Search(r.Context(), learnerIDFrom(r), query, limit)
	if err != nil {
		writeServiceError(w, h.logger, err, "Summary", "Failed to search summaries")
		return
	}
	writeJSONResponse(w, http.StatusOK, summaries)
}

func (h *SummaryHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "summary")
	if !ok {
		return
	}

	summary, err := h.service.Get(r.Context(), learnerIDFrom(r), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Summary", "Failed to get summary")
		return
	}
	writeJSONResponse(w, http.StatusOK, summary)
}

func (h *SummaryHandler) UpdateSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "summary")
	if !ok {
		return
	}

	var req models.UpdateSummaryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	summary, err := h.service.Update(r.Context(), learnerIDFrom(r), id, &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Summary", "Failed to update summary")
		return
	}
	writeJSONResponse(w, http.StatusOK, summary)
}

func (h *SummaryHandler) DeleteSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "summary")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), learnerIDFrom(r), id); err != nil {
		writeServiceError(w, h.logger, err, "Summary", "Failed to delete summary")
		return
	}
	writeSuccess(w)
}

func (h *SummaryHandler) ExportSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "summary")
	if !ok {
		return
	}

	summary, err := h.service.Get(r.Context(), learnerIDFrom(r), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Summary", "Failed to export summary")
		return
	}
	streamPDF(w, h.logger, h.renderer, services.SummaryRenderSpec(summary), fmt.Sprintf("summary-%d.pdf", id))
}
