package download

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var ErrInvalidWorkers = errors.New("worker count must be positive")

// Processor runs the whole pipeline for one work item.
type Processor interface {
	Process(ctx context.Context, item WorkItem) error
}

// Dispatcher runs work items on a fixed pool of workers sharing one queue.
// A failed item never stops the others: the queue is always drained and the
// failures are reported together.
type Dispatcher struct {
	workers   int
	processor Processor
	logger    *logrus.Entry
}

func NewDispatcher(workers int, processor Processor, logger *logrus.Logger) (*Dispatcher, error) {
	if workers <= 0 {
		return nil, ErrInvalidWorkers
	}
	return &Dispatcher{
		workers:   workers,
		processor: processor,
		logger:    logger.WithField("component", "dispatcher"),
	}, nil
}

func (d *Dispatcher) Workers() int {
	return d.workers
}

// Run blocks until every item was attempted. It returns a *BatchError when
// at least one item failed.
func (d *Dispatcher) Run(ctx context.Context, items []WorkItem) error {
	queue := make(chan WorkItem, len(items))
	for _, item := range items {
		queue <- item
	}
	close(queue)

	started := time.Now()
	d.logger.WithFields(logrus.Fields{
		"items":   len(items),
		"workers": d.workers,
	}).Info("download started")

	var (
		mu       sync.Mutex
		failures []*ItemError
	)

	// Plain group: a failing item must not cancel its siblings.
	var g errgroup.Group
	for worker := range d.workers {
		g.Go(func() error {
			for item := range queue {
				if err := d.process(ctx, worker, item); err != nil {
					mu.Lock()
					failures = append(failures, &ItemError{Item: item, Err: err})
					mu.Unlock()
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	d.logger.WithFields(logrus.Fields{
		"items":   len(items),
		"failed":  len(failures),
		"took_ms": time.Since(started).Milliseconds(),
	}).Info("download finished")

	if len(failures) > 0 {
		return &BatchError{Total: len(items), Failures: failures}
	}
	return nil
}

func (d *Dispatcher) process(ctx context.Context, worker int, item WorkItem) error {
	started := time.Now()
	entry := d.logger.WithFields(logrus.Fields{
		"worker":        worker,
		"symbol":        item.Symbol.Ticker,
		"security_type": item.Symbol.SecurityType,
		"resolution":    item.Resolution,
	})

	if err := d.processor.Process(ctx, item); err != nil {
		entry.WithError(err).Error("work item failed")
		return err
	}
	entry.WithField("took_ms", time.Since(started).Milliseconds()).Info("work item done")
	return nil
}
