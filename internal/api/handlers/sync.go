package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/amaumene/gowatcharr/internal/controllers"
	"github.com/amaumene/gowatcharr/internal/models"
	"github.com/sirupsen/logrus"
)

// SyncHandler triggers sync runs on demand
type SyncHandler struct {
	syncCtrl *controllers.SyncController
	db       *models.Database
	logger   *logrus.Logger
}

// NewSyncHandler creates a new sync-trigger handler
func NewSyncHandler(syncCtrl *controllers.SyncController, db *models.Database, logger *logrus.Logger) *SyncHandler {
	return &SyncHandler{
		syncCtrl: syncCtrl,
		db:       db,
		logger:   logger,
	}
}

// SyncRequest selects which sync to run. An empty type runs an incremental
// sync.
type SyncRequest struct {
	Type string `json:"type"`
}

// SyncResponse carries a human-readable status string
type SyncResponse struct {
	Message string `json:"message"`
}

// ServeHTTP handles the sync-trigger endpoint
func (h *SyncHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SyncRequest
	if r.Body != nil {
		// An empty body is a valid incremental trigger.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	var message string
	switch req.Type {
	case "full":
		message = h.triggerFullSync()
	case "total_runtime":
		msg, err := h.syncCtrl.RecalculateAllRuntimes(r.Context())
		if err != nil {
			h.logger.WithError(err).Error("Runtime recalculation failed")
			http.Error(w, "Runtime recalculation failed", http.StatusInternalServerError)
			return
		}
		message = msg
	case "":
		go func() {
			if err := h.syncCtrl.RunIncremental(context.Background()); err != nil {
				h.logger.WithError(err).Error("Incremental sync failed")
			}
		}()
		message = "Incremental sync started."
	default:
		http.Error(w, "Unknown sync type", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SyncResponse{Message: message})
}

func (h *SyncHandler) triggerFullSync() string {
	state, err := h.db.GetSyncState()
	if err != nil {
		h.logger.WithError(err).Error("Failed to load sync state")
		return "Could not read sync state."
	}

	switch state.Status {
	case models.SyncStatusDone:
		return "Full history has already been imported."
	case models.SyncStatusInProgress:
		return "A full history import is already in progress."
	default:
		go func() {
			if _, err := h.syncCtrl.RunFullSync(context.Background()); err != nil {
				h.logger.WithError(err).Error("Full sync failed; it will resume on the next trigger")
			}
		}()
		return "Full history import started."
	}
}
