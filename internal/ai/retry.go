package ai

import (
	"context"
	"errors"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// WrapRetryToEmbedder decorates an embedder with a per-call timeout and a
// bounded retry loop. Embedding is idempotent, so retrying on transient
// backend failures is safe. Backoff doubles per attempt.
func WrapRetryToEmbedder(next IEmbedder, attempts int, timeout time.Duration, backoff time.Duration) IEmbedder {
	if next == nil || attempts <= 1 {
		return next
	}
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	return &retryEmbedder{next: next, attempts: attempts, timeout: timeout, backoff: backoff}
}

type retryEmbedder struct {
	next     IEmbedder
	attempts int
	timeout  time.Duration
	backoff  time.Duration
}

func (r *retryEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	var lastErr error
	wait := r.backoff
	for attempt := 1; attempt <= r.attempts; attempt++ {
		values, err := r.embedOnce(ctx, text, taskType)
		if err == nil {
			return values, nil
		}
		lastErr = err
		// A dead provider or cancelled caller will not recover on retry.
		if errors.Is(err, ErrUnavailable) || ctx.Err() != nil {
			break
		}
		if attempt < r.attempts {
			logutil.GetLogger(ctx).Warn("embedding attempt failed, retrying",
				zap.Int("attempt", attempt),
				zap.String("task_type", taskType),
				zap.Error(err),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
			wait *= 2
		}
	}
	return nil, lastErr
}

func (r *retryEmbedder) embedOnce(ctx context.Context, text string, taskType string) ([]float32, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return r.next.Embed(ctx, text, taskType)
}

func (r *retryEmbedder) ModelName() string {
	return r.next.ModelName()
}
