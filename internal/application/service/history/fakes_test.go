package history

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/require"

	"marketdata-downloader/internal/domain/entity/feed"
)

type fakeConnector struct {
	t        *testing.T
	messages []feed.Message
	raw      *string
	err      error

	mu        sync.Mutex
	requests  []feed.Request
	streamed  int
	downloads []string
}

func (c *fakeConnector) Stream(_ context.Context, req feed.Request) (iter.Seq2[feed.Message, error], error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	c.streamed++
	c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	return func(yield func(feed.Message, error) bool) {
		for _, msg := range c.messages {
			if !yield(msg, nil) {
				return
			}
		}
	}, nil
}

func (c *fakeConnector) Download(_ context.Context, req feed.Request) (string, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}

	path := filepath.Join(c.t.TempDir(), "download.csv")
	f, err := os.Create(path)
	require.NoError(c.t, err)
	defer f.Close()

	if c.raw != nil {
		_, err = f.WriteString(*c.raw)
		require.NoError(c.t, err)
	} else if len(c.messages) > 0 {
		records := make([]feed.Record, 0, len(c.messages))
		for _, msg := range c.messages {
			records = append(records, feed.RecordOf(msg))
		}
		require.NoError(c.t, gocsv.MarshalFile(&records, f))
	}

	c.mu.Lock()
	c.downloads = append(c.downloads, path)
	c.mu.Unlock()
	return path, nil
}

func (c *fakeConnector) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}
