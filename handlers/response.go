package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"aimentor/models"
	"aimentor/services"
	"aimentor/services/docindex"
	"aimentor/services/genai"
	"aimentor/services/tutor"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const unreadableResponseMessage = "The AI response could not be understood, please try again"

// Renderer turns a RenderSpec into a PDF stream, satisfied by *pdf.Renderer.
type Renderer interface {
	Render(spec models.RenderSpec) io.ReadCloser
}

func writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	writeJSONResponse(w, statusCode, map[string]string{"error": message})
}

func writeSuccess(w http.ResponseWriter) {
	writeJSONResponse(w, http.StatusOK, map[string]bool{"success": true})
}

// writeServiceError maps a service failure to a status code. resource names
// the entity for 404s; fallback is the message for unexpected failures.
func writeServiceError(w http.ResponseWriter, logger *zap.SugaredLogger, err error, resource, fallback string) {
	switch {
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, tutor.ErrMissingInput):
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		writeErrorResponse(w, http.StatusNotFound, resource+" not found")
	case errors.Is(err, genai.ErrOverloaded):
		writeErrorResponse(w, http.StatusServiceUnavailable, genai.ErrOverloaded.Error())
	case errors.Is(err, genai.ErrInvalidJSON), errors.Is(err, genai.ErrEmptyResponse):
		logger.Warnf("%s: %v", fallback, err)
		writeErrorResponse(w, http.StatusBadGateway, unreadableResponseMessage)
	case errors.Is(err, docindex.ErrIndexDisabled):
		writeErrorResponse(w, http.StatusNotImplemented, docindex.ErrIndexDisabled.Error())
	default:
		logger.Errorf("%s: %v", fallback, err)
		writeErrorResponse(w, http.StatusInternalServerError, fallback)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, resource string) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid "+resource+" ID")
		return 0, false
	}
	return id, true
}

// streamPDF renders spec and copies the document to the response as an
// attachment named filename.
func streamPDF(w http.ResponseWriter, logger *zap.SugaredLogger, renderer Renderer, spec models.RenderSpec, filename string) {
	stream := renderer.Render(spec)
	defer stream.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, stream); err != nil {
		logger.Errorf("Failed to stream %s: %v", filename, err)
	}
}
