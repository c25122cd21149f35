package utils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Debouncer runs only the last function scheduled within the delay window.
// Errors of the executed functions are surfaced through Run.
type Debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	errs  chan error
}

func NewDebouncer() *Debouncer {
	return &Debouncer{errs: make(chan error, 1)}
}

func (d *Debouncer) Do(ctx context.Context, delay time.Duration, fn func(context.Context) error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(delay, func() {
		if err := fn(ctx); err != nil {
			select {
			case d.errs <- err:
			default:
				logrus.WithError(err).Error("Debounced function failed, dropping error")
			}
		}
	})
}

func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) Run(ctx context.Context) error {
	select {
	case <-ctx.Done():
		d.Cancel()
		return context.Cause(ctx)
	case err := <-d.errs:
		d.Cancel()
		return fmt.Errorf("debounced function failed: %w", err)
	}
}
