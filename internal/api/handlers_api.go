package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Daz-Mac/fishing-assistant/internal/card"
	"github.com/Daz-Mac/fishing-assistant/internal/metrics"
	"github.com/Daz-Mac/fishing-assistant/internal/models"
)

func buildAPICard(s *Server, cardID string, cfg card.Config) APICardResponse {
	snap := s.loadSnapshot(cfg)
	data := card.BuildCardData(cardID, snap, s.store, cfg, s.cardState(cardID), time.Now())
	return APICardResponse{CardID: cardID, Config: cfg, Data: data}
}

func (s *Server) handleAPICard(w http.ResponseWriter, r *http.Request) {
	cardID := r.PathValue("id")
	cfg, err := s.loadConfig(cardID)
	if err != nil {
		http.Error(w, "card not found", http.StatusNotFound)
		return
	}

	data := buildAPICard(s, cardID, cfg)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (s *Server) handleAPIGetState(w http.ResponseWriter, r *http.Request) {
	entityID := r.PathValue("entity")
	snap, err := s.store.GetSnapshot(entityID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if snap == nil {
		http.Error(w, "entity not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

type pushStateRequest struct {
	State      string          `json:"state"`
	Attributes json.RawMessage `json:"attributes"`
}

// handleAPIPushState accepts externally pushed entity updates, the push
// alternative to the poller.
func (s *Server) handleAPIPushState(w http.ResponseWriter, r *http.Request) {
	entityID := r.PathValue("entity")

	var req pushStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.State == "" {
		http.Error(w, "state is required", http.StatusBadRequest)
		return
	}

	snap := models.EntitySnapshot{
		EntityID:   entityID,
		State:      req.State,
		Attributes: req.Attributes,
		UpdatedAt:  time.Now().UTC(),
	}
	if err := s.store.UpsertSnapshot(snap, "push"); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	metrics.SnapshotsIngested.WithLabelValues(entityID, "push").Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(snap)
}

// EntityHealth reports the freshness of one stored snapshot.
type EntityHealth struct {
	EntityID   string    `json:"entity_id"`
	LastSeen   time.Time `json:"last_seen"`
	AgeMinutes int       `json:"age_minutes"`
	Stale      bool      `json:"stale"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	version, err := s.store.MigrationVersion()
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
		return
	}
	snaps, err := s.store.ListSnapshots()
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
		return
	}

	staleThreshold := 60 * time.Minute
	now := time.Now()
	status := "ok"
	entities := make([]EntityHealth, 0, len(snaps))
	for _, snap := range snaps {
		eh := EntityHealth{
			EntityID:   snap.EntityID,
			LastSeen:   snap.UpdatedAt,
			AgeMinutes: int(now.Sub(snap.UpdatedAt).Minutes()),
			Stale:      now.Sub(snap.UpdatedAt) > staleThreshold,
		}
		if eh.Stale {
			status = "degraded"
		}
		entities = append(entities, eh)
	}

	json.NewEncoder(w).Encode(map[string]any{
		"status":            status,
		"schema_version":    version,
		"banner_generation": s.imageGen != nil,
		"entities":          entities,
	})
}
