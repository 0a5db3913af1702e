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

type ExamService interface {
	Process(ctx context.Context, learnerID string, req *models.ExamRequest) (*models.Exam, error)
	List(ctx context.Context, learnerID string) ([]*models.Exam, error)
	Get(ctx context.Context, learnerID string, id int) (*models.Exam, error)
	Update(ctx context.Context, learnerID string, id int, req *models.UpdateExamRequest) (*models.Exam, error)
	Delete(ctx context.Context, learnerID string, id int) error
}

type ExamHandler struct {
	service  ExamService
	renderer Renderer
	logger   *zap.SugaredLogger
}

func NewExamHandler(service ExamService, renderer Renderer, logger *zap.SugaredLogger) *ExamHandler {
	return &ExamHandler{service: service, renderer: renderer, logger: logger}
}

func (h *ExamHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/exams", h.ListExams).Methods("GET")
	router.HandleFunc("/exams", h.ProcessExam).Methods("POST")
	router.HandleFunc("/exams/{id:[0-9]+}", h.GetExam).Methods("GET")
	router.HandleFunc("/exams/{id:[0-9]+}", h.UpdateExam).Methods("PATCH")
	router.HandleFunc("/exams/{id:[0-9]+}", h.DeleteExam).Methods("DELETE")
	router.HandleFunc("/exams/{id:[0-9]+}/pdf", h.ExportExam).Methods("GET")
}

func (h *ExamHandler) ListExams(w http.ResponseWriter, r *http.Request) {
	exams, err := h.service.List(r.Context(), learnerIDFrom(r))
	if err != nil {
		writeServiceError(w, h.logger, err, "Exam", "Failed to list exams")
		return
	}
	writeJSONResponse(w, http.StatusOK, exams)
}

// ProcessExam generates a new exam, or grades the answers when examId is set.
func (h *ExamHandler) ProcessExam(w http.ResponseWriter, r *http.Request) {
	var req models.ExamRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	exam, err := h.service.Process(r.Context(), learnerIDFrom(r), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Exam", "Failed to process exam")
		return
	}
	writeJSONResponse(w, http.StatusOK, exam)
}

func (h *ExamHandler) GetExam(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "exam")
	if !ok {
		return
	}

	exam, err := h.service.Get(r.Context(), learnerIDFrom(r), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Exam", "Failed to get exam")
		return
	}
	writeJSONResponse(w, http.StatusOK, exam)
}

func (h *ExamHandler) UpdateExam(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "exam")
	if !ok {
		return
	}

	var req models.UpdateExamRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	exam, err := h.service.Update(r.Context(), learnerIDFrom(r), id, &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Exam", "Failed to update exam")
		return
	}
	writeJSONResponse(w, http.StatusOK, exam)
}

func (h *ExamHandler) DeleteExam(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "exam")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), learnerIDFrom(r), id); err != nil {
		writeServiceError(w, h.logger, err, "Exam", "Failed to delete exam")
		return
	}
	writeSuccess(w)
}

func (h *ExamHandler) ExportExam(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "exam")
	if !ok {
		return
	}

	exam, err := h.service.Get(r.Context(), learnerIDFrom(r), id)
	if err != nil {
		writeServiceError(w, h.logger, err, "Exam", "Failed to export exam")
		return
	}
	streamPDF(w, h.logger, h.renderer, services.ExamRenderSpec(exam), fmt.Sprintf("exam-%d.pdf", id))
}
