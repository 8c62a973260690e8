package events

import (
	"context"

	"github.com/danmuck/deadswitch/internal/custody"
	"github.com/rs/zerolog"
)

// LogSink writes one structured line per event.
type LogSink struct {
	Logger zerolog.Logger
}

func (s LogSink) Record(_ context.Context, ev custody.Event) error {
	e := s.Logger.Info().
		Str("event_id", ev.ID.String()).
		Str("event", string(ev.Kind)).
		Str("caller", ev.Caller.Hex()).
		Str("status", ev.Status.String()).
		Time("at", ev.At)
	switch ev.Kind {
	case custody.EventHeirAdded, custody.EventHeirRemoved:
		e = e.Str("heir", ev.Subject.Hex())
	case custody.EventAssetDistributed:
		e = e.Str("heir", ev.Subject.Hex()).Str("asset", AssetLabel(ev.Asset))
	case custody.EventOwnerAction:
		e = e.Str("destination", ev.Subject.Hex())
	}
	if ev.Amount != nil {
		e = e.Str("amount", ev.Amount.String())
	}
	e.Msg("custody_event")
	return nil
}

// AssetLabel renders asset as "native" or its hex address.
func AssetLabel(asset custody.AssetID) string {
	if custody.IsNative(asset) {
		return "native"
	}
	return asset.Hex()
}
