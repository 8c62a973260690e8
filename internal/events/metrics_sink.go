package events

import (
	"context"

	"github.com/danmuck/deadswitch/internal/custody"
	"github.com/danmuck/deadswitch/internal/observability"
)

// MetricsSink maps events onto prometheus counters.
type MetricsSink struct{}

func (MetricsSink) Record(_ context.Context, ev custody.Event) error {
	observability.RecordEvent(string(ev.Kind), int(ev.Status))
	if ev.Kind == custody.EventAssetDistributed {
		observability.RecordDistribution(AssetLabel(ev.Asset), ev.Amount)
	}
	return nil
}
