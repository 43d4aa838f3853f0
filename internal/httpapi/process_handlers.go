package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"

	"jobsift-engine/internal/config"
	"jobsift-engine/internal/poll"
	"jobsift-engine/internal/store"
)

type ProcessHandler struct {
	DB            *sql.DB
	CfgVal        *atomic.Value
	ProcessStatus *atomic.Value

	RunProcessOnce func(ctx context.Context, cfg config.Config) (poll.BatchResult, error)
	RunIngestOnce  func(ctx context.Context, cfg config.Config) (added int, err error)
}

type submitMessageReq struct {
	MessageID int64  `json:"message_id"`
	Source    string `json:"source"`
	Text      string `json:"text"`
}

// Submit serves POST /messages: manual injection of one raw blob, mostly
// for testing the pipeline without a mailbox.
func (h ProcessHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitMessageReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		WriteError(w, r, http.StatusBadRequest, "empty_text", "text is required")
		return
	}
	if req.Source == "" {
		req.Source = "manual"
	}

	added, err := store.AddRawMessage(r.Context(), h.DB, req.Source, req.MessageID, req.Text)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	WriteJSON(w, http.StatusAccepted, map[string]any{"added": added})
}

// Run serves POST /process/run: one immediate batch drain.
func (h ProcessHandler) Run(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.CfgVal.Load().(config.Config)
	if !ok {
		WriteError(w, r, http.StatusServiceUnavailable, "no_config", "config not loaded")
		return
	}
	res, err := h.RunProcessOnce(r.Context(), cfg)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "process_error", err.Error())
		return
	}
	writeJSON(w, res)
}

// Ingest serves POST /ingest/run: one immediate mailbox fetch.
func (h ProcessHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.CfgVal.Load().(config.Config)
	if !ok {
		WriteError(w, r, http.StatusServiceUnavailable, "no_config", "config not loaded")
		return
	}
	added, err := h.RunIngestOnce(r.Context(), cfg)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "ingest_error", err.Error())
		return
	}
	writeJSON(w, map[string]any{"added": added})
}

// Status serves GET /process/status.
func (h ProcessHandler) Status(w http.ResponseWriter, r *http.Request) {
	st, _ := h.ProcessStatus.Load().(poll.ProcessStatus)
	writeJSON(w, st)
}

// MessageStats serves GET /messages/stats.
func (h ProcessHandler) MessageStats(w http.ResponseWriter, r *http.Request) {
	counts, err := store.CountMessagesByStatus(r.Context(), h.DB)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	writeJSON(w, counts)
}
