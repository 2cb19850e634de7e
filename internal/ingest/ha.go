package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Daz-Mac/fishing-assistant/internal/httputil"
	"github.com/Daz-Mac/fishing-assistant/internal/metrics"
	"github.com/Daz-Mac/fishing-assistant/internal/models"
)

// HA is a Home Assistant REST API client scoped to state reads.
type HA struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewHA(baseURL, token string) *HA {
	return &HA{
		baseURL: baseURL,
		token:   token,
		client:  httputil.NewClient(),
	}
}

type stateResponse struct {
	EntityID    string          `json:"entity_id"`
	State       string          `json:"state"`
	Attributes  json.RawMessage `json:"attributes"`
	LastUpdated time.Time       `json:"last_updated"`
}

// FetchState reads one entity's current state. A 404 means the entity does
// not exist and is reported as a nil snapshot, not an error; rate limits
// and server errors are retried with exponential backoff.
func (h *HA) FetchState(ctx context.Context, entityID string) (*models.EntitySnapshot, error) {
	url := fmt.Sprintf("%s/api/states/%s", h.baseURL, entityID)

	var body []byte
	var notFound bool
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		req.Header.Set("Authorization", "Bearer "+h.token)

		start := time.Now()
		resp, err := h.client.Do(req)
		metrics.HAAPILatency.WithLabelValues(entityID).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.HAAPICallsTotal.WithLabelValues(entityID, "error").Inc()
			return fmt.Errorf("fetch state: %w", err)
		}
		defer resp.Body.Close()
		metrics.HAAPICallsTotal.WithLabelValues(entityID, resp.Status).Inc()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			notFound = true
			return nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return fmt.Errorf("fetch state: status %d", resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("fetch state: status %d: %s", resp.StatusCode, string(b)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read body: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Minute
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	if notFound {
		return nil, nil
	}

	var data stateResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}

	snap := &models.EntitySnapshot{
		EntityID:   data.EntityID,
		State:      data.State,
		Attributes: data.Attributes,
		UpdatedAt:  data.LastUpdated.UTC(),
	}
	if snap.EntityID == "" {
		snap.EntityID = entityID
	}
	if snap.UpdatedAt.IsZero() {
		snap.UpdatedAt = time.Now().UTC()
	}
	return snap, nil
}
