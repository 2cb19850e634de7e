package ingest

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Daz-Mac/fishing-assistant/internal/store"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return st
}

func haServer(t *testing.T, states map[string]map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		entityID := r.URL.Path[len("/api/states/"):]
		state, ok := states[entityID]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(state)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchState(t *testing.T) {
	srv := haServer(t, map[string]map[string]any{
		"sensor.fishing_spot": {
			"entity_id": "sensor.fishing_spot",
			"state":     "7.8",
			"attributes": map[string]any{
				"location": "Wandi Point",
			},
			"last_updated": "2024-06-15T06:00:00Z",
		},
	})

	ha := NewHA(srv.URL, "test-token")
	snap, err := ha.FetchState(context.Background(), "sensor.fishing_spot")
	if err != nil {
		t.Fatalf("FetchState: %v", err)
	}
	if snap == nil {
		t.Fatal("FetchState returned nil for an existing entity")
	}
	if snap.State != "7.8" {
		t.Errorf("State = %q, want 7.8", snap.State)
	}
	if snap.UpdatedAt != time.Date(2024, 6, 15, 6, 0, 0, 0, time.UTC) {
		t.Errorf("UpdatedAt = %v", snap.UpdatedAt)
	}
	var attrs map[string]string
	if err := json.Unmarshal(snap.Attributes, &attrs); err != nil {
		t.Fatalf("attributes: %v", err)
	}
	if attrs["location"] != "Wandi Point" {
		t.Errorf("location = %q", attrs["location"])
	}
}

func TestFetchState_NotFound(t *testing.T) {
	srv := haServer(t, nil)
	ha := NewHA(srv.URL, "test-token")

	snap, err := ha.FetchState(context.Background(), "sensor.nope")
	if err != nil {
		t.Fatalf("FetchState: %v", err)
	}
	if snap != nil {
		t.Errorf("snap = %+v, want nil for a missing entity", snap)
	}
}

func TestFetchState_RetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"entity_id": "sensor.fishing_spot",
			"state":     "6.0",
		})
	}))
	defer srv.Close()

	ha := NewHA(srv.URL, "test-token")
	snap, err := ha.FetchState(context.Background(), "sensor.fishing_spot")
	if err != nil {
		t.Fatalf("FetchState: %v", err)
	}
	if snap == nil || snap.State != "6.0" {
		t.Fatalf("snap = %+v", snap)
	}
	if calls < 3 {
		t.Errorf("calls = %d, want retries before success", calls)
	}
}

func TestPollEntityIngestsSiblings(t *testing.T) {
	srv := haServer(t, map[string]map[string]any{
		"sensor.fishing_spot": {
			"entity_id": "sensor.fishing_spot",
			"state":     "7.8",
			"attributes": map[string]any{
				"location_key": "wandi_point",
			},
		},
		"sensor.wandi_point_wind_speed": {
			"entity_id": "sensor.wandi_point_wind_speed",
			"state":     "18",
		},
		"sensor.wandi_point_tide_state": {
			"entity_id": "sensor.wandi_point_tide_state",
			"state":     "rising",
		},
	})

	st := setupTestStore(t)
	p := NewPoller(NewHA(srv.URL, "test-token"), st, []string{"sensor.fishing_spot"}, time.Hour)

	if err := p.PollEntity(context.Background(), "sensor.fishing_spot"); err != nil {
		t.Fatalf("PollEntity: %v", err)
	}

	snap, err := st.GetSnapshot("sensor.fishing_spot")
	if err != nil || snap == nil {
		t.Fatalf("score entity not stored: %v", err)
	}
	if wind, _ := st.GetSnapshot("sensor.wandi_point_wind_speed"); wind == nil || wind.State != "18" {
		t.Errorf("wind sibling not stored: %+v", wind)
	}
	if tide, _ := st.GetSnapshot("sensor.wandi_point_tide_state"); tide == nil || tide.State != "rising" {
		t.Errorf("tide sibling not stored: %+v", tide)
	}
	// Absent siblings are skipped, not stored.
	if wave, _ := st.GetSnapshot("sensor.wandi_point_wave_height"); wave != nil {
		t.Errorf("missing sibling should not be stored: %+v", wave)
	}
}

func TestPollEntityWithoutLocationKey(t *testing.T) {
	srv := haServer(t, map[string]map[string]any{
		"sensor.fishing_spot": {
			"entity_id":  "sensor.fishing_spot",
			"state":      "5.0",
			"attributes": map[string]any{},
		},
	})

	st := setupTestStore(t)
	p := NewPoller(NewHA(srv.URL, "test-token"), st, []string{"sensor.fishing_spot"}, time.Hour)

	if err := p.PollEntity(context.Background(), "sensor.fishing_spot"); err != nil {
		t.Fatalf("PollEntity: %v", err)
	}
	snap, _ := st.GetSnapshot("sensor.fishing_spot")
	if snap == nil || snap.State != "5.0" {
		t.Fatalf("snap = %+v", snap)
	}
}
