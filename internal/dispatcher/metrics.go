package dispatcher

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/spheroedu/bridge/pkg/core"
)

const instrumentationName = "github.com/spheroedu/bridge/internal/dispatcher"

type metrics struct {
	processed metric.Int64Counter
	dropped   metric.Int64Counter
	failed    metric.Int64Counter

	reg metric.Registration
}

func eventAttr(typ core.EventType) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("event", typ.String()))
}

// newMetrics registers the dispatcher instruments on m. depths is called on
// every collection until unregister to report queued events per type.
func newMetrics(m metric.Meter, depths func(report func(core.EventType, int))) (*metrics, error) {
	var (
		out metrics
		err error
	)

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&out.processed, "dispatcher.events.processed", "Events handed to a handler"},
		{&out.dropped, "dispatcher.events.dropped", "Events dropped because the handler queue was full"},
		{&out.failed, "dispatcher.events.failed", "Events whose handler returned an error"},
	}
	for _, c := range counters {
		if *c.dst, err = m.Int64Counter(c.name, metric.WithDescription(c.desc)); err != nil {
			return nil, fmt.Errorf("counter %s: %w", c.name, err)
		}
	}

	depth, err := m.Int64ObservableGauge("dispatcher.queue.size",
		metric.WithDescription("Events waiting for a queued handler"))
	if err != nil {
		return nil, fmt.Errorf("queue gauge: %w", err)
	}
	out.reg, err = m.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		depths(func(typ core.EventType, n int) {
			o.ObserveInt64(depth, int64(n), eventAttr(typ))
		})
		return nil
	}, depth)
	if err != nil {
		return nil, fmt.Errorf("queue gauge callback: %w", err)
	}
	return &out, nil
}

func (m *metrics) unregister() error {
	return m.reg.Unregister()
}
