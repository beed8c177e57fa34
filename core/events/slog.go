package events

import (
	"log/slog"
	"sort"

	"bankvest/core/types"
)

// renderer is implemented by payloads that expand themselves into a
// broadcastable attribute set.
type renderer interface {
	Event() *types.Event
}

// SlogEmitter writes every ledger event to a structured audit log.
type SlogEmitter struct {
	Log *slog.Logger
}

// Emit implements the Emitter interface. Attributes are emitted in sorted
// order so audit lines stay stable across runs.
func (s SlogEmitter) Emit(evt Event) {
	if s.Log == nil || evt == nil {
		return
	}
	attrs := []any{slog.String("event", evt.EventType())}
	if r, ok := evt.(renderer); ok {
		rendered := r.Event()
		keys := make([]string, 0, len(rendered.Attributes))
		for k := range rendered.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			attrs = append(attrs, slog.String(k, rendered.Attributes[k]))
		}
	}
	s.Log.Info("ledger event", attrs...)
}
