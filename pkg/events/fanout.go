package events

import (
	"context"
	"errors"

	"github.com/reeljournal/reeljournal/pkg/interfaces"
)

// Fanout publishes to every publisher in order and joins their errors.
// A failing publisher does not stop the others.
type Fanout []interfaces.EventPublisher

// Publish sends event to each publisher.
func (f Fanout) Publish(ctx context.Context, event interfaces.Event) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
