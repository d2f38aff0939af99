package chunker

import (
	"fmt"
	"strings"

	"github.com/asrvd/video-indexing-and-search/internal/model"
	appErr "github.com/asrvd/video-indexing-and-search/internal/pkg/errors"
	"github.com/asrvd/video-indexing-and-search/internal/pkg/timefmt"
)

const DefaultChunkSize = 3

// Chunk partitions caption entries into consecutive groups of chunkSize.
// The final group may hold fewer entries; it is never dropped. Each chunk's
// text is the space-joined text of its entries in order, its time range runs
// from the first entry's start to the last entry's start plus duration.
func Chunk(entries []model.CaptionEntry, chunkSize int) ([]model.Chunk, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", appErr.ErrInvalidConfiguration, chunkSize)
	}
	if len(entries) == 0 {
		return []model.Chunk{}, nil
	}
	chunks := make([]model.Chunk, 0, (len(entries)+chunkSize-1)/chunkSize)
	for i := 0; i < len(entries); i += chunkSize {
		end := i + chunkSize
		if end > len(entries) {
			end = len(entries)
		}
		group := entries[i:end]
		texts := make([]string, 0, len(group))
		for _, entry := range group {
			texts = append(texts, entry.Text)
		}
		last := group[len(group)-1]
		startTime := group[0].Start
		endTime := last.Start + last.Duration
		chunks = append(chunks, model.Chunk{
			Text:           strings.Join(texts, " "),
			StartTime:      startTime,
			EndTime:        endTime,
			StartFormatted: timefmt.FormatSeconds(startTime),
			EndFormatted:   timefmt.FormatSeconds(endTime),
		})
	}
	return chunks, nil
}
