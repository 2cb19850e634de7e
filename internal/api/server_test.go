package api_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Daz-Mac/fishing-assistant/internal/api"
	"github.com/Daz-Mac/fishing-assistant/internal/models"
	"github.com/Daz-Mac/fishing-assistant/internal/store"

	_ "modernc.org/sqlite"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	s := store.New(db)
	if err := s.Migrate(); err != nil {
		t.Fatal(err)
	}
	return s
}

func seedCard(t *testing.T, s *store.Store) {
	t.Helper()
	if err := s.UpsertCardConfig("c1", json.RawMessage(`{"entity":"sensor.fishing_spot"}`)); err != nil {
		t.Fatal(err)
	}

	attrs, err := json.Marshal(map[string]any{
		"location": "Wandi Point",
		"forecast": []map[string]any{
			{
				"date":  "2024-06-15",
				"score": 0.82,
				"periods": map[string]any{
					"morning":   map[string]any{"score": 0.9},
					"afternoon": map[string]any{"score": 0.4},
				},
			},
			{
				"date":  "2024-06-16",
				"score": 0.3,
				"periods": map[string]any{
					"morning": map[string]any{"score": 0.2},
				},
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	err = s.UpsertSnapshot(models.EntitySnapshot{
		EntityID:   "sensor.fishing_spot",
		State:      "7.8",
		Attributes: attrs,
		UpdatedAt:  time.Now().UTC(),
	}, "poll")
	if err != nil {
		t.Fatal(err)
	}
}

func get(t *testing.T, srv *api.Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func postForm(t *testing.T, srv *api.Server, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()
	srv := api.NewServer(setupTestStore(t), "8080")

	w := get(t, srv, "/health")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status"`) {
		t.Error("expected status field in JSON response")
	}
}

func TestIndexListsCards(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	seedCard(t, s)
	srv := api.NewServer(s, "8080")

	w := get(t, srv, "/")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "/card/c1") {
		t.Error("expected a link to the seeded card")
	}
	if !strings.Contains(body, "Wandi Point") {
		t.Error("expected the card location on the index")
	}
}

func TestCardPageRendersCard(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	seedCard(t, s)
	srv := api.NewServer(s, "8080")

	w := get(t, srv, "/card/c1")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "fishing-card") {
		t.Error("expected the card markup")
	}
	if !strings.Contains(body, "Expand All") {
		t.Error("expected the collapsed toggle-all label")
	}
}

func TestCardPage_MissingEntity(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	if err := s.UpsertCardConfig("c1", json.RawMessage(`{"entity":"sensor.nope"}`)); err != nil {
		t.Fatal(err)
	}
	srv := api.NewServer(s, "8080")

	w := get(t, srv, "/card/c1")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Entity not found") {
		t.Error("expected the entity-not-found notice")
	}
}

func TestCardPage_UnknownCard(t *testing.T) {
	t.Parallel()
	srv := api.NewServer(setupTestStore(t), "8080")
	if w := get(t, srv, "/card/nope"); w.Code != 404 {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestToggleDayInteraction(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	seedCard(t, s)
	srv := api.NewServer(s, "8080")

	w := postForm(t, srv, "/card/c1/toggle-day", url.Values{"day": {"2024-06-15"}})
	if w.Code != 303 {
		t.Fatalf("expected 303 redirect, got %d", w.Code)
	}

	body := get(t, srv, "/card/c1").Body.String()
	if !strings.Contains(body, "Collapse All") {
		t.Error("toggle-all label should flip once a day is expanded")
	}
	if !strings.Contains(body, "forecast-day expanded") {
		t.Error("expected the toggled day to render expanded")
	}

	// Second toggle collapses it again.
	postForm(t, srv, "/card/c1/toggle-day", url.Values{"day": {"2024-06-15"}})
	body = get(t, srv, "/card/c1").Body.String()
	if strings.Contains(body, "forecast-day expanded") {
		t.Error("second toggle should collapse the day")
	}
}

func TestToggleAllInteraction(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	seedCard(t, s)
	srv := api.NewServer(s, "8080")

	postForm(t, srv, "/card/c1/toggle-all", nil)
	body := get(t, srv, "/card/c1").Body.String()
	if strings.Count(body, "forecast-day expanded") != 2 {
		t.Error("toggle-all should expand both forecast days")
	}

	postForm(t, srv, "/card/c1/toggle-all", nil)
	body = get(t, srv, "/card/c1").Body.String()
	if strings.Contains(body, "forecast-day expanded") {
		t.Error("second toggle-all should collapse everything")
	}
}

func TestDetailPopupInteraction(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	seedCard(t, s)
	srv := api.NewServer(s, "8080")

	postForm(t, srv, "/card/c1/detail", url.Values{"day": {"2024-06-15"}, "period": {"morning"}})
	body := get(t, srv, "/card/c1").Body.String()
	if !strings.Contains(body, "period-popup open") {
		t.Error("expected an open popup after the detail toggle")
	}
	if !strings.Contains(body, "popup-backdrop") {
		t.Error("expected the backdrop with a popup open")
	}

	postForm(t, srv, "/card/c1/close-detail", nil)
	body = get(t, srv, "/card/c1").Body.String()
	if strings.Contains(body, "period-popup open") {
		t.Error("close-detail should close the popup")
	}
}

func TestEditOptionRoundTrip(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	seedCard(t, s)
	srv := api.NewServer(s, "8080")

	w := postForm(t, srv, "/card/c1/edit", url.Values{"option": {"forecast_days"}, "value": {"3"}})
	if w.Code != 303 {
		t.Fatalf("expected 303, got %d", w.Code)
	}

	body := get(t, srv, "/card/c1/edit").Body.String()
	if !strings.Contains(body, `"forecast_days":3`) {
		t.Error("expected the updated config in the notification payload")
	}
}

func TestEditOption_RejectsUnknown(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	seedCard(t, s)
	srv := api.NewServer(s, "8080")

	w := postForm(t, srv, "/card/c1/edit", url.Values{"option": {"bogus"}, "value": {"1"}})
	if w.Code != 303 {
		t.Fatalf("expected redirect, got %d", w.Code)
	}
	loc := w.Header().Get("Location")
	if !strings.Contains(loc, "error=") {
		t.Errorf("expected an error redirect, got %q", loc)
	}
}

func TestPushState(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	srv := api.NewServer(s, "8080")

	payload := `{"state":"6.4","attributes":{"location":"Reef"}}`
	req := httptest.NewRequest("POST", "/api/states/sensor.fishing_spot", strings.NewReader(payload))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != 201 {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	snap, err := s.GetSnapshot("sensor.fishing_spot")
	if err != nil || snap == nil {
		t.Fatalf("pushed state not stored: %v", err)
	}
	if snap.State != "6.4" {
		t.Errorf("State = %q, want 6.4", snap.State)
	}
}

func TestPushState_RequiresState(t *testing.T) {
	t.Parallel()
	srv := api.NewServer(setupTestStore(t), "8080")

	req := httptest.NewRequest("POST", "/api/states/sensor.x", strings.NewReader(`{"attributes":{}}`))
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != 400 {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAPICard(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	seedCard(t, s)
	srv := api.NewServer(s, "8080")

	w := get(t, srv, "/api/cards/c1")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		CardID string `json:"card_id"`
		Data   struct {
			Found    bool `json:"Found"`
			ScorePct int  `json:"ScorePct"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.CardID != "c1" {
		t.Errorf("card_id = %q", resp.CardID)
	}
	if !resp.Data.Found || resp.Data.ScorePct != 78 {
		t.Errorf("data = %+v", resp.Data)
	}
}

func TestBadgeEndpoint(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	seedCard(t, s)
	srv := api.NewServer(s, "8080")

	w := get(t, srv, "/card/c1/badge.png")
	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	if w.Body.Len() == 0 {
		t.Error("empty badge body")
	}
}

func TestWarmBannersWithoutGenerator(t *testing.T) {
	// No API key means no generator; the warm-up must be a clean no-op.
	t.Setenv("OPENAI_API_KEY", "")
	s := setupTestStore(t)
	seedCard(t, s)
	srv := api.NewServer(s, "8080")

	srv.WarmBanners(context.Background())
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	srv := api.NewServer(setupTestStore(t), "8080")
	if w := get(t, srv, "/metrics"); w.Code != 200 {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
