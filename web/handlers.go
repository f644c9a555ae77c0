package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"markestedt/keywatch/platform"
)

// handleStatus returns the current capture status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := struct {
		Status      string `json:"status"`
		Installed   bool   `json:"installed"`
		Subscribers int    `json:"subscribers"`
		Entries     int    `json:"entries"`
	}{
		Status:      s.statusString(),
		Installed:   s.svc.Installed(),
		Subscribers: s.svc.Subscribers(),
		Entries:     s.svc.Registry().Len(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleEntries returns the registered watch entries
func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	type entry struct {
		Key       string `json:"key"`
		Modifiers string `json:"modifiers"`
		Block     bool   `json:"block"`
	}

	entries := []entry{}
	for _, e := range s.svc.Registry().Entries() {
		entries = append(entries, entry{
			Key:       platform.KeyName(e.Key),
			Modifiers: e.Mods.String(),
			Block:     e.Block,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"entries": entries})
}

// handleHistory returns the paginated notification audit log
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 50 // default
	offset := 0

	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}
	if o, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && o >= 0 {
		offset = o
	}

	events, err := s.db.GetKeyEvents(limit, offset)
	if err != nil {
		slog.Error("Failed to get key events", "error", err)
		http.Error(w, "Failed to get history", http.StatusInternalServerError)
		return
	}

	total, err := s.db.GetKeyEventCount()
	if err != nil {
		slog.Error("Failed to get key event count", "error", err)
		http.Error(w, "Failed to get history", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"events": events,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleStats returns audit-log statistics for the specified time range
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	days := 7 // default to 7 days
	if d, err := strconv.Atoi(r.URL.Query().Get("days")); err == nil && d > 0 {
		days = d
	}

	overall, err := s.db.GetOverallStats(days)
	if err != nil {
		slog.Error("Failed to get overall stats", "error", err)
		http.Error(w, "Failed to get statistics", http.StatusInternalServerError)
		return
	}

	keys, err := s.db.GetKeyStats(days)
	if err != nil {
		slog.Error("Failed to get key stats", "error", err)
		http.Error(w, "Failed to get statistics", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"overall": overall,
		"keys":    keys,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
