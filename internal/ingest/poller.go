package ingest

import (
	"context"
	"log"
	"time"

	"github.com/Daz-Mac/fishing-assistant/internal/metrics"
	"github.com/Daz-Mac/fishing-assistant/internal/models"
	"github.com/Daz-Mac/fishing-assistant/internal/normalize"
	"github.com/Daz-Mac/fishing-assistant/internal/store"
)

// Poller periodically pulls configured score entities and their sibling
// sensors from Home Assistant into the snapshot store.
type Poller struct {
	ha       *HA
	store    *store.Store
	entities []string
	interval time.Duration
}

func NewPoller(ha *HA, st *store.Store, entities []string, interval time.Duration) *Poller {
	return &Poller{
		ha:       ha,
		store:    st,
		entities: entities,
		interval: interval,
	}
}

// Run polls once immediately, then on every tick until the context ends.
func (p *Poller) Run(ctx context.Context) {
	p.pollAll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.pollAll(ctx)
		}
	}
}

func (p *Poller) pollAll(ctx context.Context) {
	for _, entityID := range p.entities {
		if err := p.PollEntity(ctx, entityID); err != nil {
			log.Printf("poller: %s: %v", entityID, err)
		}
	}
}

// PollEntity fetches one score entity and, when its attributes carry a
// location key, the companion sensors derived from it. A missing sibling
// is normal and skipped silently.
func (p *Poller) PollEntity(ctx context.Context, entityID string) error {
	snap, err := p.ha.FetchState(ctx, entityID)
	if err != nil {
		return err
	}
	if snap == nil {
		log.Printf("poller: entity %s not found in Home Assistant", entityID)
		return nil
	}

	if err := p.store.UpsertSnapshot(*snap, "poll"); err != nil {
		return err
	}
	metrics.SnapshotsIngested.WithLabelValues(entityID, "poll").Inc()

	bag := normalize.ParseAttributes(snap.Attributes)
	if bag.LocationKey == "" {
		return nil
	}

	for _, suffix := range models.SiblingSuffixes {
		sibID := models.SiblingEntityID(bag.LocationKey, suffix)
		sib, err := p.ha.FetchState(ctx, sibID)
		if err != nil {
			log.Printf("poller: sibling %s: %v", sibID, err)
			continue
		}
		if sib == nil {
			continue
		}
		if err := p.store.UpsertSnapshot(*sib, "poll"); err != nil {
			return err
		}
		metrics.SnapshotsIngested.WithLabelValues(sibID, "poll").Inc()
	}
	return nil
}
