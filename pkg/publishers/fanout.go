package publishers

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Fanout delivers each audit event to every sink routed for its action.
type Fanout struct {
	sinks []Publisher
}

// NewFanout drops nil entries and keeps the rest in order.
func NewFanout(pubs []Publisher) *Fanout {
	sinks := make([]Publisher, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			sinks = append(sinks, p)
		}
	}
	return &Fanout{sinks: sinks}
}

// Publish attempts every routed sink even after a failure and returns how
// many accepted the event alongside the joined delivery errors.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	if f == nil {
		return 0, nil
	}
	delivered := 0
	var errs []error
	for _, sink := range f.sinks {
		if !accepts(sink, evt.Action) {
			continue
		}
		if err := sink.Publish(ctx, evt); err != nil {
			errs = append(errs, fmt.Errorf("%s sink %q: %w", sink.Type(), sink.ID(), err))
			continue
		}
		delivered++
	}
	return delivered, errors.Join(errs...)
}

// Size returns the number of configured sinks.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.sinks)
}

// Close releases sinks that hold connections.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	return closeAll(f.sinks)
}

func closeAll(sinks []Publisher) error {
	var errs []error
	for _, sink := range sinks {
		c, ok := sink.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s sink %q: %w", sink.Type(), sink.ID(), err))
		}
	}
	return errors.Join(errs...)
}
