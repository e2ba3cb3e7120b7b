package http

import (
	"net/http"
	"time"

	"ecocharge/internal/core"
	applog "ecocharge/internal/log"
)

// handleIndex reloads the collection from the store and renders the full page.
// A failed load still renders, with an empty collection and a notice.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	notice := ""
	if err := s.tracker.Load(r.Context()); err != nil {
		s.events.LogError(r.Context(), "Failed to load sessions", err, errorType(err), applog.OpList, nil)
		notice = "Veriler yüklenemedi. " + userMessage(err)
	}

	page := newPageView(s.tracker.Dashboard(ParseMonthFilter(r.URL.Query())), time.Now())
	page.Notice = notice
	s.render(w, r, "index.html", page)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d := s.tracker.Dashboard(ParseMonthFilter(r.URL.Query()))
	s.render(w, r, "dashboard.html", newDashboardView(d))
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		ErrorResponse(http.StatusBadRequest, "Geçersiz istek biçimi").Write(w)
		return
	}

	session, err := core.ParseSessionInput(ParseSessionForm(r.PostForm))
	if err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Session form rejected",
			applog.FieldError, err.Error(), applog.FieldOperation, applog.OpCreate)
		ErrorResponse(http.StatusUnprocessableEntity, userMessage(err)).Write(w)
		return
	}

	if err := s.tracker.Add(r.Context(), session); err != nil {
		s.events.LogError(r.Context(), "Failed to store session", err, errorType(err), applog.OpCreate,
			applog.NewFields().WithSession(session.ID, session.Provider, session.Date, session.TotalCost, session.TotalKWh))
		ErrorResponse(statusFor(err), userMessage(err)).Write(w)
		return
	}
	s.events.LogSessionCreated(r.Context(), session.ID, session.Provider, session.Date, session.TotalCost, session.TotalKWh)

	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerSessionCreated(session.ID, session.MonthKey()).
		TriggerFormReset().
		TriggerSuccessNotification("Şarj oturumu kaydedildi").
		Write(w)
}

// handleDeleteSession removes one session. The page asks for confirmation
// before issuing the request.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := sanitizeInput(r.PathValue("id"))
	if id == "" {
		ErrorResponse(http.StatusBadRequest, "Kimlik eksik").Write(w)
		return
	}

	if err := s.tracker.Delete(r.Context(), id); err != nil {
		s.events.LogError(r.Context(), "Failed to delete session", err, errorType(err), applog.OpDelete,
			applog.LogFields{applog.FieldSessionID: id})
		ErrorResponse(statusFor(err), userMessage(err)).Write(w)
		return
	}
	applog.FromContext(r.Context()).InfoContext(r.Context(), "Session deleted",
		applog.FieldSessionID, id, applog.FieldOperation, applog.OpDelete)

	NewHTMXResponse().
		TriggerSessionDeleted(id).
		TriggerSuccessNotification("Oturum silindi").
		Write(w)
}
