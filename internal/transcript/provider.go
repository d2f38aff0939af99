package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/asrvd/video-indexing-and-search/internal/model"
)

// Fetcher retrieves the time-stamped caption list for a video. The video id
// format is opaque to callers; each backend decides what it means.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, videoID string) ([]model.CaptionEntry, error)
}

type Factory func(args interface{}) (Fetcher, error)

var registry = map[string]Factory{}

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

func New(name string, args interface{}) (Fetcher, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, fmt.Errorf("transcript.provider is required")
	}
	factory := registry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported transcript provider: %s", name)
	}
	return factory(args)
}

func decodeConfig(args interface{}, dst interface{}) error {
	if args == nil {
		return nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode transcript provider config: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode transcript provider config: %w", err)
	}
	return nil
}
