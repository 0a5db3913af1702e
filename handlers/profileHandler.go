package handlers

import (
	"context"
	"net/http"

	"aimentor/models"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type ProfileService interface {
	Get(ctx context.Context, learnerID string) (*models.Profile, error)
	Update(ctx context.Context, learnerID string, req *models.UpdateProfileRequest) (*models.Profile, error)
}

type StatsService interface {
	Get(ctx context.Context, learnerID string) (*models.Stats, error)
}

// ProfileHandler serves the learner's profile and activity stats.
type ProfileHandler struct {
	profiles ProfileService
	stats    StatsService
	logger   *zap.SugaredLogger
}

func NewProfileHandler(profiles ProfileService, stats StatsService, logger *zap.SugaredLogger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, stats: stats, logger: logger}
}

func (h *ProfileHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/profile", h.GetProfile).Methods("GET")
	router.HandleFunc("/profile", h.UpdateProfile).Methods("POST")
	router.HandleFunc("/stats", h.GetStats).Methods("GET")
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.Get(r.Context(), learnerIDFrom(r))
	if err != nil {
		writeServiceError(w, h.logger, err, "Profile", "Failed to get profile")
		return
	}
	writeJSONResponse(w, http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.profiles.Update(r.Context(), learnerIDFrom(r), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "Profile", "Failed to update profile")
		return
	}
	writeJSONResponse(w, http.StatusOK, profile)
}

func (h *ProfileHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Get(r.Context(), learnerIDFrom(r))
	if err != nil {
		writeServiceError(w, h.logger, err, "Stats", "Failed to load stats")
		return
	}
	writeJSONResponse(w, http.StatusOK, stats)
}
