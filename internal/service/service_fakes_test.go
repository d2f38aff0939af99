package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/asrvd/video-indexing-and-search/internal/model"
	appErr "github.com/asrvd/video-indexing-and-search/internal/pkg/errors"
	"github.com/asrvd/video-indexing-and-search/internal/store"
)

type fakeFetcher struct {
	entries map[string][]model.CaptionEntry
}

func (f *fakeFetcher) Name() string {
	return "fake"
}

func (f *fakeFetcher) Fetch(ctx context.Context, videoID string) ([]model.CaptionEntry, error) {
	entries, ok := f.entries[videoID]
	if !ok {
		return nil, fmt.Errorf("%w: no captions for %s", appErr.ErrTranscriptUnavailable, videoID)
	}
	return entries, nil
}

// hashEmbedder derives a deterministic unit-ish vector from text so equal
// texts embed identically regardless of task type.
type hashEmbedder struct {
	mu      sync.Mutex
	calls   int
	failOn  string
	failErr error
}

func (h *hashEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	h.mu.Lock()
	h.calls++
	h.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if h.failOn != "" && text == h.failOn {
		if h.failErr != nil {
			return nil, h.failErr
		}
		return nil, fmt.Errorf("synthetic embed failure")
	}
	vector := make([]float32, 8)
	for i, r := range text {
		vector[i%8] += float32(r%31) + 1
	}
	return vector, nil
}

func (h *hashEmbedder) ModelName() string {
	return "hash-model"
}

type memItem struct {
	ordinal int
	vector  []float32
	meta    model.ChunkMetadata
}

type memStore struct {
	mu    sync.Mutex
	items map[string]memItem
}

func newMemStore() *memStore {
	return &memStore{items: map[string]memItem{}}
}

func (m *memStore) Upsert(ctx context.Context, id string, ordinal int, vector []float32, meta model.ChunkMetadata) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id] = memItem{ordinal: ordinal, vector: append([]float32(nil), vector...), meta: meta}
	return nil
}

func (m *memStore) Query(ctx context.Context, vector []float32, topK int) ([]store.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	matches := make([]store.Match, 0, len(m.items))
	for _, item := range m.items {
		matches = append(matches, store.Match{Meta: item.meta, Score: cosine(vector, item.vector)})
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if topK < len(matches) {
		matches = matches[:topK]
	}
	return matches, nil
}

func (m *memStore) DeleteVideo(ctx context.Context, videoID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, item := range m.items {
		if item.meta.VideoID == videoID {
			delete(m.items, id)
		}
	}
	return nil
}

func (m *memStore) DeleteFrom(ctx context.Context, videoID string, fromOrdinal int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for id, item := range m.items {
		if item.meta.VideoID == videoID && item.ordinal >= fromOrdinal {
			delete(m.items, id)
			removed++
		}
	}
	return removed, nil
}

func (m *memStore) CountByVideo(ctx context.Context, videoID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, item := range m.items {
		if item.meta.VideoID == videoID {
			count++
		}
	}
	return count, nil
}

func (m *memStore) ids() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.items))
	for id := range m.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func cosine(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

type memCatalog struct {
	mu     sync.Mutex
	videos map[string]model.Video
}

func newMemCatalog() *memCatalog {
	return &memCatalog{videos: map[string]model.Video{}}
}

func (c *memCatalog) Upsert(ctx context.Context, video *model.Video) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.videos[video.ID] = *video
	return nil
}

func (c *memCatalog) Get(ctx context.Context, videoID string) (*model.Video, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	video, ok := c.videos[videoID]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return &video, nil
}

func (c *memCatalog) List(ctx context.Context) ([]model.Video, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	videos := make([]model.Video, 0, len(c.videos))
	for _, video := range c.videos {
		videos = append(videos, video)
	}
	sort.Slice(videos, func(i, j int) bool { return videos[i].ID < videos[j].ID })
	return videos, nil
}

func (c *memCatalog) Delete(ctx context.Context, videoID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.videos, videoID)
	return nil
}
