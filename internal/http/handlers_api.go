package http

import (
	"errors"
	"net/http"

	"ecocharge/internal/core"
	applog "ecocharge/internal/log"
)

func (s *Server) handleAPISessions(w http.ResponseWriter, r *http.Request) {
	filter := ParseMonthFilter(r.URL.Query())
	sessions := core.FilterByMonth(s.tracker.Snapshot(), filter)
	if sessions == nil {
		sessions = []core.Session{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleAPIDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.tracker.Dashboard(ParseMonthFilter(r.URL.Query())))
}

// handleAPIBatch stores a JSON array of sessions all at once. Nothing is
// stored when any entry is invalid or the store rejects the batch.
func (s *Server) handleAPIBatch(w http.ResponseWriter, r *http.Request) {
	batch, err := ParseSessionBatch(r.Body)
	if err != nil {
		status := http.StatusBadRequest
		var ve *core.ValidationError
		if errors.As(err, &ve) {
			status = http.StatusUnprocessableEntity
		}
		writeJSONError(w, status, err.Error())
		return
	}

	if err := s.tracker.AddMany(r.Context(), batch); err != nil {
		s.events.LogError(r.Context(), "Failed to store session batch", err, errorType(err), applog.OpImport,
			applog.LogFields{applog.FieldCount: len(batch)})
		writeJSONError(w, statusFor(err), err.Error())
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Session batch stored",
		applog.FieldCount, len(batch), applog.FieldOperation, applog.OpImport)

	ids := make([]string, len(batch))
	for i, sess := range batch {
		ids[i] = sess.ID
	}
	writeJSON(w, http.StatusCreated, map[string]any{"inserted": len(batch), "ids": ids})
}
