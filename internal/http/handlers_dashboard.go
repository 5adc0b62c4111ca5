package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"itemdash/internal/core"
)

// handleIndex renders the dashboard page. Query parameters mirror the API:
// item selects the charted item, field/dir sort the table, q filters the
// picker.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	snap, err := s.snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Feed load error", "error", err)
		http.Error(w, "feed unavailable", http.StatusServiceUnavailable)
		return
	}

	query := r.URL.Query()
	selectedID := sanitizeInput(query.Get("item"))
	if selectedID == "" && len(snap.Items) > 0 {
		selectedID = snap.Items[0].ID
	}
	state := parseSortState(query)
	d := core.BuildDashboard(snap.Items, snap.Histories, selectedID, state)

	pickerQuery := sanitizeInput(query.Get("q"))
	picker := make([]core.Item, 0, len(snap.Items))
	for _, it := range snap.Items {
		if matchesQuery(it, pickerQuery) {
			picker = append(picker, it)
		}
	}

	data := struct {
		Picker      []core.Item
		PickerQuery string
		Dashboard   core.Dashboard
	}{
		Picker:      picker,
		PickerQuery: pickerQuery,
		Dashboard:   d,
	}

	if err := s.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Dashboard template execution failed", "error", err, "template", "dashboard.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleListItems returns the catalog filtered by the picker query.
func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Feed load error", "error", err)
		writeJSONError(w, http.StatusServiceUnavailable, "feed unavailable")
		return
	}

	q := sanitizeInput(r.URL.Query().Get("q"))
	out := make([]itemDTO, 0, len(snap.Items))
	for _, it := range snap.Items {
		if matchesQuery(it, q) {
			out = append(out, toItemDTO(it))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleItemSeries returns the selected item's chart points.
func (s *Server) handleItemSeries(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Feed load error", "error", err)
		writeJSONError(w, http.StatusServiceUnavailable, "feed unavailable")
		return
	}

	itemID := r.PathValue("id")
	d := core.BuildDashboard(snap.Items, snap.Histories, itemID, core.SortState{})
	if d.Selected == nil {
		writeJSONError(w, http.StatusNotFound, "unknown item")
		return
	}
	writeJSON(w, http.StatusOK, toSeriesDTO(d.Series))
}

// handleItemSummary returns the selected item's summary chips.
func (s *Server) handleItemSummary(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Feed load error", "error", err)
		writeJSONError(w, http.StatusServiceUnavailable, "feed unavailable")
		return
	}

	itemID := r.PathValue("id")
	d := core.BuildDashboard(snap.Items, snap.Histories, itemID, core.SortState{})
	if d.Selected == nil {
		writeJSONError(w, http.StatusNotFound, "unknown item")
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(d.Summary))
}

// handleTable returns the inventory table, sorted per field/dir.
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Feed load error", "error", err)
		writeJSONError(w, http.StatusServiceUnavailable, "feed unavailable")
		return
	}

	query := r.URL.Query()
	if f := strings.TrimSpace(query.Get("field")); f != "" && !core.SortField(f).IsValid() {
		writeJSONError(w, http.StatusBadRequest, "unknown sort field")
		return
	}
	state := parseSortState(query)
	d := core.BuildDashboard(snap.Items, snap.Histories, "", state)
	writeJSON(w, http.StatusOK, toTableDTO(d.Rows, d.GrandTotal, state))
}

// handleMonthly returns the per-month aggregates with top price movers.
func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Feed load error", "error", err)
		writeJSONError(w, http.StatusServiceUnavailable, "feed unavailable")
		return
	}

	aggs := core.AggregateMonthly(snap.Items, snap.Histories)
	writeJSON(w, http.StatusOK, toMonthlyDTO(aggs))
}

// handleCreatePurchase records a purchase and invalidates the snapshot so
// the next read reflects it.
func (s *Server) handleCreatePurchase(w http.ResponseWriter, r *http.Request) {
	if s.purchases == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "purchase intake disabled")
		return
	}

	itemID, entry, err := parsePurchaseRequest(r)
	if err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ref, err := s.purchases.RecordPurchase(r.Context(), itemID, entry)
	if err != nil {
		if errors.Is(err, core.ErrEmptyItemID) {
			writeJSONError(w, http.StatusNotFound, "unknown item")
			return
		}
		slog.ErrorContext(r.Context(), "Purchase record error", "error", err, "item", itemID)
		writeJSONError(w, http.StatusInternalServerError, "failed to record purchase")
		return
	}

	s.invalidateSnapshot()

	writeJSON(w, http.StatusCreated, struct {
		Ref    string `json:"ref"`
		ItemID string `json:"itemId"`
	}{Ref: ref, ItemID: itemID})
}
