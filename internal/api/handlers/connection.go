package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/amaumene/gowatcharr/internal/services/trakt"
	"github.com/sirupsen/logrus"
)

// ConnectionHandler checks Trakt.tv credentials on behalf of the settings UI
type ConnectionHandler struct {
	logger *logrus.Logger
}

// NewConnectionHandler creates a new connection-test handler
func NewConnectionHandler(logger *logrus.Logger) *ConnectionHandler {
	return &ConnectionHandler{logger: logger}
}

// ConnectionRequest carries the credentials to verify
type ConnectionRequest struct {
	Username string `json:"username"`
	APIKey   string `json:"api_key"`
}

// ServeHTTP handles the connection-test endpoint
func (h *ConnectionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.APIKey == "" {
		http.Error(w, "username and api_key are required", http.StatusBadRequest)
		return
	}

	client := trakt.NewClient(req.Username, req.APIKey, h.logger)
	status := client.TestConnection(r.Context())

	h.logger.WithFields(logrus.Fields{
		"username": req.Username,
		"code":     status.Code,
	}).Info("Connection test")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}
