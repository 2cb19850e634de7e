package api

import (
	"context"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/Daz-Mac/fishing-assistant/internal/classify"
	"github.com/Daz-Mac/fishing-assistant/internal/imagegen"
)

// handleBadge serves the card's circular score gauge.
func (s *Server) handleBadge(w http.ResponseWriter, r *http.Request) {
	cardID := r.PathValue("id")
	cfg, err := s.loadConfig(cardID)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	snap := s.loadSnapshot(cfg)
	if snap == nil {
		http.NotFound(w, r)
		return
	}

	score, _ := strconv.ParseFloat(snap.State, 64)
	pct := int(math.Round(score * 10))

	size := 96
	if v := r.URL.Query().Get("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			size = n
		}
	}

	data, err := imagegen.Badge(pct, size)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.Write(data)
}

// handleBanner serves the generated condition banner, falling back to any
// cached banner when the exact scene has not been generated yet.
func (s *Server) handleBanner(w http.ResponseWriter, r *http.Request) {
	cardID := r.PathValue("id")
	cfg, err := s.loadConfig(cardID)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	snap := s.loadSnapshot(cfg)
	if snap == nil {
		http.NotFound(w, r)
		return
	}

	score, _ := strconv.ParseFloat(snap.State, 64)
	now := time.Now()
	tier := classify.ScoreTier(int(math.Round(score * 10)))
	key := classify.BannerKey(tier, classify.GetTimeOfDay(now))

	if data, ok := s.imageCache.Get(key); ok {
		serveBanner(w, data)
		return
	}

	if s.imageGen != nil {
		s.genMu.Lock()
		defer s.genMu.Unlock()

		// Re-check after acquiring the lock; another request may have
		// generated it.
		if data, ok := s.imageCache.Get(key); ok {
			serveBanner(w, data)
			return
		}

		data, err := s.imageGen.Generate(r.Context(), tier, now)
		if err != nil {
			log.Printf("banner generation: %v", err)
		} else {
			if err := s.imageCache.Set(key, data); err != nil {
				log.Printf("banner cache write: %v", err)
			}
			serveBanner(w, data)
			return
		}
	}

	if data, ok := s.imageCache.GetAny(); ok {
		serveBanner(w, data)
		return
	}
	http.NotFound(w, r)
}

func serveBanner(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

// WarmBanners pre-generates the banner for each configured card's current
// scene so card pages never wait on first view. Without a generator, or
// with every scene already cached, this is a no-op.
func (s *Server) WarmBanners(ctx context.Context) {
	if s.imageGen == nil {
		return
	}
	ids, err := s.store.ListCardIDs()
	if err != nil {
		log.Printf("banner warm-up: %v", err)
		return
	}

	now := time.Now()
	seen := make(map[string]bool)
	for _, id := range ids {
		cfg, err := s.loadConfig(id)
		if err != nil {
			continue
		}
		snap := s.loadSnapshot(cfg)
		if snap == nil {
			continue
		}

		score, _ := strconv.ParseFloat(snap.State, 64)
		tier := classify.ScoreTier(int(math.Round(score * 10)))
		key := classify.BannerKey(tier, classify.GetTimeOfDay(now))
		// Cards sharing a scene share a banner.
		if seen[key] {
			continue
		}
		seen[key] = true

		s.genMu.Lock()
		if _, ok := s.imageCache.Get(key); ok {
			s.genMu.Unlock()
			continue
		}
		data, err := s.imageGen.Generate(ctx, tier, now)
		if err != nil {
			log.Printf("banner warm-up: %s: %v", key, err)
			s.genMu.Unlock()
			continue
		}
		if err := s.imageCache.Set(key, data); err != nil {
			log.Printf("banner warm-up: cache %s: %v", key, err)
		}
		s.genMu.Unlock()
	}
}
