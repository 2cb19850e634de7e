package api

import (
	"net/http"
	"net/url"

	"github.com/Daz-Mac/fishing-assistant/internal/card"
)

// The interaction handlers apply one pure state transition and bounce back
// to the card page, which re-renders the whole card from the new state.

func (s *Server) handleToggleDay(w http.ResponseWriter, r *http.Request) {
	cardID := r.PathValue("id")
	if _, err := s.loadConfig(cardID); err != nil {
		http.NotFound(w, r)
		return
	}
	dayID := r.FormValue("day")
	if dayID == "" {
		http.Error(w, "day is required", http.StatusBadRequest)
		return
	}
	s.setCardState(cardID, card.ToggleDay(s.cardState(cardID), dayID))
	redirectCard(w, r, cardID)
}

func (s *Server) handleToggleAll(w http.ResponseWriter, r *http.Request) {
	cardID := r.PathValue("id")
	cfg, err := s.loadConfig(cardID)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	dayIDs := s.loadForecast(cfg).DayIDs()
	s.setCardState(cardID, card.ToggleAll(s.cardState(cardID), dayIDs))
	redirectCard(w, r, cardID)
}

func (s *Server) handleToggleDetail(w http.ResponseWriter, r *http.Request) {
	cardID := r.PathValue("id")
	if _, err := s.loadConfig(cardID); err != nil {
		http.NotFound(w, r)
		return
	}
	dayID := r.FormValue("day")
	period := r.FormValue("period")
	if dayID == "" || period == "" {
		http.Error(w, "day and period are required", http.StatusBadRequest)
		return
	}
	s.setCardState(cardID, card.ToggleDetail(s.cardState(cardID), dayID, period))
	redirectCard(w, r, cardID)
}

func (s *Server) handleCloseDetail(w http.ResponseWriter, r *http.Request) {
	cardID := r.PathValue("id")
	if _, err := s.loadConfig(cardID); err != nil {
		http.NotFound(w, r)
		return
	}
	s.setCardState(cardID, card.CloseDetail(s.cardState(cardID)))
	redirectCard(w, r, cardID)
}

func redirectCard(w http.ResponseWriter, r *http.Request, cardID string) {
	http.Redirect(w, r, "/card/"+url.PathEscape(cardID), http.StatusSeeOther)
}
