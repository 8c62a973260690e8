// Package events provides sinks for committed custody events.
package events

import (
	"context"
	"errors"

	"github.com/danmuck/deadswitch/internal/custody"
)

// Fanout forwards each event to every sink and joins their errors.
type Fanout []custody.Sink

var _ custody.Sink = Fanout(nil)

func (f Fanout) Record(ctx context.Context, ev custody.Event) error {
	var errs []error
	for _, s := range f {
		if s == nil {
			continue
		}
		if err := s.Record(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
