package adapthttp

import (
	"errors"
	"fmt"
	"net/http"

	"calories/internal/domain"
)

// activitiesResponse is the full view of the tracker for the UI.
type activitiesResponse struct {
	Activities []domain.Activity `json:"activities"`
	ActiveID   *string           `json:"activeId"`
	Totals     domain.Totals     `json:"totals"`
	CanReset   bool              `json:"canReset"`
}

func (s *Server) view() activitiesResponse {
	snap, totals := s.tracker.View()
	resp := activitiesResponse{
		Activities: snap.Activities(),
		Totals:     totals,
		CanReset:   snap.CanReset(),
	}
	if resp.Activities == nil {
		resp.Activities = []domain.Activity{}
	}
	if id, ok := snap.ActiveID(); ok {
		resp.ActiveID = &id
	}
	return resp
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": domain.Categories()})
}

func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.view())
	case http.MethodPost:
		var body domain.Activity
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		saved, err := s.tracker.Submit(r.Context(), body)
		if errors.Is(err, domain.ErrInvalidActivity) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"activity": saved, "totals": s.tracker.Summary()})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleActiveActivity(w http.ResponseWriter, r *http.Request) {
	a, ok := s.tracker.Active()
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("no active activity: %w", domain.ErrActivityNotFound))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"activity": a})
}

func (s *Server) handleEditActivity(w http.ResponseWriter, r *http.Request) {
	a, err := s.tracker.Edit(r.Context(), r.PathValue("id"))
	if errors.Is(err, domain.ErrActivityNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"activity": a})
}

func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	deleted := s.tracker.Delete(r.Context(), r.PathValue("id"))
	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted, "totals": s.tracker.Summary()})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.tracker.Reset(r.Context())
	writeJSON(w, http.StatusOK, s.view())
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	unit := r.URL.Query().Get("unit")
	if unit == "" {
		unit = s.unit
	}
	if !domain.ValidEnergyUnit(unit) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown unit %q", unit))
		return
	}
	snap, totals := s.tracker.View()
	writeJSON(w, http.StatusOK, map[string]any{
		"unit":   unit,
		"totals": totals.In(unit),
		"count":  snap.Len(),
	})
}
