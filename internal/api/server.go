package api

import (
	"context"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Daz-Mac/fishing-assistant/internal/card"
	"github.com/Daz-Mac/fishing-assistant/internal/imagegen"
	"github.com/Daz-Mac/fishing-assistant/internal/store"
)

type Server struct {
	store      *store.Store
	port       string
	renderer   *card.Renderer
	tmpl       *template.Template
	imageCache *imagegen.Cache
	imageGen   *imagegen.Generator
	genMu      sync.Mutex // Prevents concurrent generation of same banner

	// Per-card interaction state. Transitions are pure; the mutex only
	// guards the registry map.
	mu     sync.Mutex
	states map[string]card.State
}

func NewServer(store *store.Store, port string) *Server {
	// Banner generation is optional - may not have API key.
	var imageGen *imagegen.Generator
	if gen, err := imagegen.NewGenerator(); err != nil {
		log.Printf("Banner generation disabled: %v", err)
	} else {
		imageGen = gen
	}

	return &Server{
		store:      store,
		port:       port,
		renderer:   card.NewRenderer(),
		tmpl:       newTemplates(),
		imageCache: imagegen.NewCache("data/images"),
		imageGen:   imageGen,
		states:     make(map[string]card.State),
	}
}

func (s *Server) cardState(cardID string) card.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[cardID]
	if !ok {
		return card.NewState()
	}
	return st
}

func (s *Server) setCardState(cardID string, st card.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[cardID] = st
}

func (s *Server) dropCardState(cardID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, cardID)
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /cards", s.handleCreateCard)
	mux.HandleFunc("GET /card/{id}", s.handleCardPage)
	mux.HandleFunc("POST /card/{id}/toggle-day", s.handleToggleDay)
	mux.HandleFunc("POST /card/{id}/toggle-all", s.handleToggleAll)
	mux.HandleFunc("POST /card/{id}/detail", s.handleToggleDetail)
	mux.HandleFunc("POST /card/{id}/close-detail", s.handleCloseDetail)
	mux.HandleFunc("GET /card/{id}/edit", s.handleEditPage)
	mux.HandleFunc("POST /card/{id}/edit", s.handleEditOption)
	mux.HandleFunc("POST /card/{id}/delete", s.handleDeleteCard)
	mux.HandleFunc("GET /card/{id}/badge.png", s.handleBadge)
	mux.HandleFunc("GET /card/{id}/banner.png", s.handleBanner)
	mux.HandleFunc("GET /api/cards/{id}", s.handleAPICard)
	mux.HandleFunc("GET /api/states/{entity}", s.handleAPIGetState)
	mux.HandleFunc("POST /api/states/{entity}", s.handleAPIPushState)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
