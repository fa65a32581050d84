package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/amaumene/gowatcharr/internal/utils"
	"github.com/sirupsen/logrus"
)

// StatusHandler handles status requests
type StatusHandler struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(db *models.Database, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		db:     db,
		logger: logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	TotalEvents    int            `json:"total_events"`
	EventsByKind   map[string]int `json:"events_by_kind"`
	Shows          int            `json:"shows"`
	MinutesWatched int64          `json:"minutes_watched"`
	TimeWatched    string         `json:"time_watched"`
	FullSyncStatus string         `json:"full_sync_status"`
	RemainingPages int            `json:"remaining_pages"`
	RuntimeRecalc  string         `json:"runtime_recalc_status"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	counts, err := h.db.CountEventsByKind()
	if err != nil {
		h.logger.WithError(err).Error("Failed to count events")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	shows, err := h.db.GetTermsByTaxonomy(models.TaxonomyShow)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list shows")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	stats, err := h.db.GetStats()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get stats")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	state, err := h.db.GetSyncState()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get sync state")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	response := StatusResponse{
		EventsByKind:   make(map[string]int),
		Shows:          len(shows),
		MinutesWatched: stats.TotalMinutesWatched,
		TimeWatched:    utils.FormatMinutes(stats.TotalMinutesWatched),
		FullSyncStatus: string(state.Status),
		RemainingPages: state.RemainingPages,
		RuntimeRecalc:  string(state.RuntimeRecalc.Status),
	}
	for kind, n := range counts {
		response.EventsByKind[string(kind)] = n
		response.TotalEvents += n
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
