package imagegen

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/Daz-Mac/fishing-assistant/internal/classify"
	"github.com/Daz-Mac/fishing-assistant/internal/metrics"
)

// Generator produces card banner images using OpenAI's API.
type Generator struct {
	client openai.Client
	model  string
}

// NewGenerator creates a new banner generator.
// It reads the OPENAI_API_KEY environment variable for authentication.
func NewGenerator() (*Generator, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable not set")
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &Generator{
		client: client,
		model:  "gpt-image-1",
	}, nil
}

// Generate creates a banner for the given score tier at the given time.
// Returns the image as PNG bytes.
func (g *Generator) Generate(ctx context.Context, tier classify.Tier, t time.Time) ([]byte, error) {
	tod := classify.GetTimeOfDay(t)
	moon := classify.GetMoonPhase(t)
	prompt := classify.BuildBannerPrompt(tier, tod, moon)
	key := classify.BannerKey(tier, tod)

	log.Printf("imagegen: generating banner for %s (moon: %s)", key, moon)

	resp, err := g.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Model:        g.model,
		Prompt:       prompt,
		Size:         openai.ImageGenerateParamsSize1536x1024,
		Quality:      openai.ImageGenerateParamsQualityLow,
		OutputFormat: openai.ImageGenerateParamsOutputFormatPNG,
	})
	if err != nil {
		metrics.BannerGenerations.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("banner generation failed: %w", err)
	}

	if len(resp.Data) == 0 {
		metrics.BannerGenerations.WithLabelValues("empty").Inc()
		return nil, errors.New("no image data returned")
	}

	imageData := resp.Data[0].B64JSON
	if imageData == "" {
		metrics.BannerGenerations.WithLabelValues("empty").Inc()
		return nil, errors.New("empty image data returned")
	}

	imageBytes, err := base64.StdEncoding.DecodeString(imageData)
	if err != nil {
		metrics.BannerGenerations.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to decode image data: %w", err)
	}

	metrics.BannerGenerations.WithLabelValues("ok").Inc()
	log.Printf("imagegen: generated banner for %s (%d bytes)", key, len(imageBytes))
	return imageBytes, nil
}
