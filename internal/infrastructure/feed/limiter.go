package feed

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"golang.org/x/sync/semaphore"

	domain "marketdata-downloader/internal/domain/entity/feed"
	interfaces "marketdata-downloader/internal/domain/interfaces"
)

var ErrInvalidSessions = errors.New("session limit must be positive")

// Limiter enforces the vendor's concurrent-session cap on a connector.
// Download holds a session for the call; Stream holds one while the
// returned sequence is being iterated.
type Limiter struct {
	next     interfaces.FeedConnector
	sessions *semaphore.Weighted
	capacity int64
}

func NewLimiter(next interfaces.FeedConnector, sessions int) (*Limiter, error) {
	if sessions <= 0 {
		return nil, ErrInvalidSessions
	}
	return &Limiter{
		next:     next,
		sessions: semaphore.NewWeighted(int64(sessions)),
		capacity: int64(sessions),
	}, nil
}

func (l *Limiter) Capacity() int {
	return int(l.capacity)
}

func (l *Limiter) Download(ctx context.Context, req domain.Request) (string, error) {
	if err := l.sessions.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("acquire feed session: %w", err)
	}
	defer l.sessions.Release(1)
	return l.next.Download(ctx, req)
}

func (l *Limiter) Stream(ctx context.Context, req domain.Request) (iter.Seq2[domain.Message, error], error) {
	return func(yield func(domain.Message, error) bool) {
		if err := l.sessions.Acquire(ctx, 1); err != nil {
			yield(nil, fmt.Errorf("acquire feed session: %w", err))
			return
		}
		defer l.sessions.Release(1)

		seq, err := l.next.Stream(ctx, req)
		if err != nil {
			yield(nil, err)
			return
		}
		for msg, err := range seq {
			if !yield(msg, err) || err != nil {
				return
			}
		}
	}, nil
}
