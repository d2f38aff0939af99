package ai

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type flakyEmbedder struct {
	calls    int
	failures int
}

func (f *flakyEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, fmt.Errorf("backend overloaded")
	}
	return []float32{1, 2, 3}, nil
}

func (f *flakyEmbedder) ModelName() string {
	return "fake-model"
}

func TestRetryEmbedder_RecoversFromTransientFailure(t *testing.T) {
	fake := &flakyEmbedder{failures: 2}
	embedder := WrapRetryToEmbedder(fake, 3, time.Second, time.Millisecond)
	values, err := embedder.Embed(context.Background(), "hello", TaskTypeDocument)
	require.NoError(t, err)
	require.Len(t, values, 3)
	require.Equal(t, 3, fake.calls)
}

func TestRetryEmbedder_GivesUpAfterBoundedAttempts(t *testing.T) {
	fake := &flakyEmbedder{failures: 10}
	embedder := WrapRetryToEmbedder(fake, 3, time.Second, time.Millisecond)
	_, err := embedder.Embed(context.Background(), "hello", TaskTypeQuery)
	require.Error(t, err)
	require.Equal(t, 3, fake.calls)
}

type deadEmbedder struct {
	calls int
}

func (d *deadEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	d.calls++
	return nil, ErrUnavailable
}

func (d *deadEmbedder) ModelName() string {
	return "dead-model"
}

func TestRetryEmbedder_DoesNotRetryUnavailableProvider(t *testing.T) {
	fake := &deadEmbedder{}
	embedder := WrapRetryToEmbedder(fake, 5, time.Second, time.Millisecond)
	_, err := embedder.Embed(context.Background(), "hello", TaskTypeDocument)
	require.ErrorIs(t, err, ErrUnavailable)
	if fake.calls != 1 {
		t.Fatalf("expected a single attempt, got %d", fake.calls)
	}
}

func TestRetryEmbedder_SingleAttemptReturnsUnwrapped(t *testing.T) {
	fake := &flakyEmbedder{}
	embedder := WrapRetryToEmbedder(fake, 1, 0, 0)
	require.Equal(t, IEmbedder(fake), embedder)
}
