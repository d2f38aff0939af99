package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/asrvd/video-indexing-and-search/internal/model"
	appErr "github.com/asrvd/video-indexing-and-search/internal/pkg/errors"
)

const defaultTimedTextBaseURL = "https://video.google.com/timedtext"

type youtubeConfig struct {
	Lang           string `json:"lang"`
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// youtubeFetcher pulls a caption track from YouTube's timedtext endpoint in
// json3 format. Videos with captions disabled come back empty, which maps to
// ErrTranscriptUnavailable.
type youtubeFetcher struct {
	lang    string
	baseURL string
	client  *http.Client
}

type timedTextResponse struct {
	Events []timedTextEvent `json:"events"`
}

type timedTextEvent struct {
	StartMs    int64          `json:"tStartMs"`
	DurationMs int64          `json:"dDurationMs"`
	Segs       []timedTextSeg `json:"segs"`
}

type timedTextSeg struct {
	UTF8 string `json:"utf8"`
}

func (f *youtubeFetcher) Name() string {
	return "youtube"
}

func (f *youtubeFetcher) Fetch(ctx context.Context, videoID string) ([]model.CaptionEntry, error) {
	if strings.TrimSpace(videoID) == "" {
		return nil, fmt.Errorf("%w: empty video id", appErr.ErrTranscriptUnavailable)
	}
	endpoint := fmt.Sprintf("%s?v=%s&lang=%s&fmt=json3",
		strings.TrimRight(f.baseURL, "/"),
		url.QueryEscape(videoID),
		url.QueryEscape(f.lang),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch captions for %s: %w", videoID, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read captions for %s: %w", videoID, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: video %s: status %d", appErr.ErrTranscriptUnavailable, videoID, resp.StatusCode)
	}
	// The endpoint answers 200 with an empty body when no track exists.
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, fmt.Errorf("%w: video %s has no caption track", appErr.ErrTranscriptUnavailable, videoID)
	}
	var parsed timedTextResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode captions for %s: %w", videoID, err)
	}
	entries := normalizeEvents(parsed.Events)
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: video %s has no caption text", appErr.ErrTranscriptUnavailable, videoID)
	}
	return entries, nil
}

// normalizeEvents extracts (text, start, duration) records from raw timedtext
// events. Events without text segments are window metadata, not captions.
func normalizeEvents(events []timedTextEvent) []model.CaptionEntry {
	entries := make([]model.CaptionEntry, 0, len(events))
	for _, event := range events {
		if len(event.Segs) == 0 {
			continue
		}
		var sb strings.Builder
		for _, seg := range event.Segs {
			sb.WriteString(seg.UTF8)
		}
		text := strings.TrimSpace(strings.ReplaceAll(sb.String(), "\n", " "))
		if text == "" {
			continue
		}
		entries = append(entries, model.CaptionEntry{
			Text:     text,
			Start:    float64(event.StartMs) / 1000,
			Duration: float64(event.DurationMs) / 1000,
		})
	}
	return entries
}

func createYoutubeFetcher(args interface{}) (Fetcher, error) {
	cfg := &youtubeConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	if cfg.Lang == "" {
		cfg.Lang = "en"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultTimedTextBaseURL
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &youtubeFetcher{
		lang:    cfg.Lang,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func init() {
	Register("youtube", createYoutubeFetcher)
}
