package transcript

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/asrvd/video-indexing-and-search/internal/model"
	appErr "github.com/asrvd/video-indexing-and-search/internal/pkg/errors"
)

type srtConfig struct {
	Dir string `json:"dir"`
}

// srtFetcher reads captions from <dir>/<video_id>.srt. Useful for offline
// runs and for indexing videos whose transcript was exported by hand.
type srtFetcher struct {
	dir string
}

func (f *srtFetcher) Name() string {
	return "srt"
}

func (f *srtFetcher) Fetch(ctx context.Context, videoID string) ([]model.CaptionEntry, error) {
	_ = ctx
	path := filepath.Join(f.dir, videoID+".srt")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no srt file for video %s", appErr.ErrTranscriptUnavailable, videoID)
		}
		return nil, err
	}
	entries := ParseSRT(string(data))
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: srt file for video %s is empty", appErr.ErrTranscriptUnavailable, videoID)
	}
	return entries, nil
}

// ParseSRT converts SRT subtitle text into caption entries. Consecutive text
// lines of one cue are merged into a single entry.
//
//	1
//	00:00:00,000 --> 00:00:01,830
//	I'm happy to
//	have you here today.
func ParseSRT(text string) []model.CaptionEntry {
	if text == "" {
		return []model.CaptionEntry{}
	}
	var entries []model.CaptionEntry
	var cueStart, cueEnd float64
	var cueLines []string
	haveTimes := false

	flush := func() {
		if !haveTimes || len(cueLines) == 0 {
			cueLines = nil
			return
		}
		entries = append(entries, model.CaptionEntry{
			Text:     strings.Join(cueLines, " "),
			Start:    cueStart,
			Duration: cueEnd - cueStart,
		})
		cueLines = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			flush()
			continue
		}
		if isDigitsOnly(line) && len(cueLines) == 0 {
			continue
		}
		if strings.Contains(line, "-->") {
			flush()
			parts := strings.Split(line, "-->")
			if len(parts) != 2 {
				haveTimes = false
				continue
			}
			start, err1 := parseSRTTimestamp(strings.TrimSpace(parts[0]))
			end, err2 := parseSRTTimestamp(strings.TrimSpace(parts[1]))
			if err1 != nil || err2 != nil {
				haveTimes = false
				continue
			}
			cueStart, cueEnd = start, end
			haveTimes = true
			continue
		}
		cueLines = append(cueLines, line)
	}
	flush()
	return entries
}

// parseSRTTimestamp parses HH:MM:SS,mmm into seconds.
func parseSRTTimestamp(value string) (float64, error) {
	value = strings.Replace(value, ",", ".", 1)
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed srt timestamp: %s", value)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed srt timestamp: %s", value)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed srt timestamp: %s", value)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("malformed srt timestamp: %s", value)
	}
	return float64(hours*3600+minutes*60) + seconds, nil
}

func isDigitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func createSRTFetcher(args interface{}) (Fetcher, error) {
	cfg := &srtConfig{}
	if err := decodeConfig(args, cfg); err != nil {
		return nil, err
	}
	if cfg.Dir == "" {
		return nil, fmt.Errorf("srt transcript dir is required")
	}
	return &srtFetcher{dir: cfg.Dir}, nil
}

func init() {
	Register("srt", createSRTFetcher)
}
