package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/Daz-Mac/fishing-assistant/internal/card"
	"github.com/Daz-Mac/fishing-assistant/internal/models"
	"github.com/Daz-Mac/fishing-assistant/internal/normalize"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.ListCardIDs()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := IndexData{Error: r.URL.Query().Get("error")}
	for _, id := range ids {
		summary := CardSummary{CardID: id}
		if cfg, err := s.loadConfig(id); err == nil {
			summary.Entity = cfg.Entity
			if snap, _ := s.store.GetSnapshot(cfg.Entity); snap != nil {
				summary.Found = true
				summary.Score = snap.State
				summary.Location = normalize.ParseAttributes(snap.Attributes).Location
				summary.Updated = snap.UpdatedAt
			}
		}
		data.Cards = append(data.Cards, summary)
	}

	if err := s.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		log.Printf("template error: %v", err)
	}
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	cardID := strings.TrimSpace(r.FormValue("card_id"))
	entity := strings.TrimSpace(r.FormValue("entity"))
	if cardID == "" || entity == "" {
		redirectIndexError(w, r, "card id and entity are required")
		return
	}

	raw, err := json.Marshal(map[string]string{"entity": entity})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if _, err := card.ParseConfig(raw); err != nil {
		redirectIndexError(w, r, err.Error())
		return
	}
	if err := s.store.UpsertCardConfig(cardID, raw); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/card/"+url.PathEscape(cardID), http.StatusSeeOther)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	cardID := r.PathValue("id")
	if err := s.store.DeleteCard(cardID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.dropCardState(cardID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleCardPage(w http.ResponseWriter, r *http.Request) {
	cardID := r.PathValue("id")
	cfg, err := s.loadConfig(cardID)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	snap, err := s.store.GetSnapshot(cfg.Entity)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	html, err := s.renderer.Render(cardID, snap, s.store, cfg, s.cardState(cardID), time.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := s.tmpl.ExecuteTemplate(w, "cardpage.html", CardPageData{CardID: cardID, Card: html}); err != nil {
		log.Printf("template error: %v", err)
	}
}

func (s *Server) handleEditPage(w http.ResponseWriter, r *http.Request) {
	s.renderEditPage(w, r, r.URL.Query().Get("error"))
}

func (s *Server) handleEditOption(w http.ResponseWriter, r *http.Request) {
	cardID := r.PathValue("id")
	raw, err := s.store.GetCardConfig(cardID)
	if err != nil || raw == nil {
		http.NotFound(w, r)
		return
	}

	// The editor emits a single option change per submit.
	updated, err := card.SetOption(raw, r.FormValue("option"), r.FormValue("value"))
	if err != nil {
		http.Redirect(w, r, fmt.Sprintf("/card/%s/edit?error=%s", url.PathEscape(cardID), url.QueryEscape(err.Error())), http.StatusSeeOther)
		return
	}
	if _, err := card.ParseConfig(updated); err != nil {
		http.Redirect(w, r, fmt.Sprintf("/card/%s/edit?error=%s", url.PathEscape(cardID), url.QueryEscape(err.Error())), http.StatusSeeOther)
		return
	}
	if err := s.store.UpsertCardConfig(cardID, updated); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/card/"+url.PathEscape(cardID)+"/edit", http.StatusSeeOther)
}

func (s *Server) renderEditPage(w http.ResponseWriter, r *http.Request, errMsg string) {
	cardID := r.PathValue("id")
	cfg, err := s.loadConfig(cardID)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	data := EditData{
		CardID:       cardID,
		Options:      editOptions(cfg),
		Notification: string(cfg.Notification()),
		Error:        errMsg,
	}

	if err := s.tmpl.ExecuteTemplate(w, "edit.html", data); err != nil {
		log.Printf("template error: %v", err)
	}
}

// editOptions flattens the merged config into editor rows, one per option.
func editOptions(cfg card.Config) []EditOption {
	opts := []EditOption{
		{Name: "entity", Kind: "string", Value: cfg.Entity},
		{Name: "show_forecast", Kind: "bool", Value: fmt.Sprint(cfg.ShowForecast)},
		{Name: "show_current_conditions", Kind: "bool", Value: fmt.Sprint(cfg.ShowCurrentConditions)},
		{Name: "compact_mode", Kind: "bool", Value: fmt.Sprint(cfg.CompactMode)},
		{Name: "forecast_days", Kind: "int", Value: fmt.Sprint(cfg.ForecastDays)},
		{Name: "expand_forecast", Kind: "bool", Value: fmt.Sprint(cfg.ExpandForecast)},
		{Name: "show_component_scores", Kind: "bool", Value: fmt.Sprint(cfg.ShowComponentScores)},
	}
	sort.Slice(opts[1:], func(i, j int) bool { return opts[i+1].Name < opts[j+1].Name })
	return opts
}

func (s *Server) loadConfig(cardID string) (card.Config, error) {
	raw, err := s.store.GetCardConfig(cardID)
	if err != nil {
		return card.Config{}, err
	}
	if raw == nil {
		return card.Config{}, fmt.Errorf("card %s not found", cardID)
	}
	return card.ParseConfig(raw)
}

// loadForecast rebuilds the canonical forecast for a card, used by the
// interaction handlers that need day ids.
func (s *Server) loadForecast(cfg card.Config) normalize.Forecast {
	snap, err := s.store.GetSnapshot(cfg.Entity)
	if err != nil || snap == nil {
		return nil
	}
	return normalize.Normalize(normalize.ParseAttributes(snap.Attributes).Forecast, cfg.ForecastDays)
}

func (s *Server) loadSnapshot(cfg card.Config) *models.EntitySnapshot {
	snap, err := s.store.GetSnapshot(cfg.Entity)
	if err != nil {
		return nil
	}
	return snap
}

func redirectIndexError(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/?error="+url.QueryEscape(msg), http.StatusSeeOther)
}
