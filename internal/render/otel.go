package render

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Faultbox/wardrobe/internal/registry"
)

const instrumentationName = "github.com/Faultbox/wardrobe/internal/render"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type metrics struct {
	composed  metric.Int64Counter
	fallbacks metric.Int64Counter
	misses    metric.Int64Counter
	rejected  metric.Int64Counter
	healed    metric.Int64Counter
}

// newMetrics registers the counters on the global meter provider, which is
// a no-op unless the host installs an SDK.
func newMetrics(reg *registry.Registry) (*metrics, error) {
	m := meter()
	var (
		mt  metrics
		err error
	)

	if mt.composed, err = m.Int64Counter("wardrobe.compose.total",
		metric.WithDescription("Entity composes requested")); err != nil {
		return nil, fmt.Errorf("creating compose counter: %w", err)
	}
	if mt.fallbacks, err = m.Int64Counter("wardrobe.compose.fallback",
		metric.WithDescription("Composes handed back to the host draw path")); err != nil {
		return nil, fmt.Errorf("creating fallback counter: %w", err)
	}
	if mt.misses, err = m.Int64Counter("wardrobe.resolution.miss",
		metric.WithDescription("Equipped ids missing from the registry")); err != nil {
		return nil, fmt.Errorf("creating miss counter: %w", err)
	}
	if mt.rejected, err = m.Int64Counter("wardrobe.registry.rejected",
		metric.WithDescription("Packs rejected at load")); err != nil {
		return nil, fmt.Errorf("creating rejected counter: %w", err)
	}
	if mt.healed, err = m.Int64Counter("wardrobe.state.healed",
		metric.WithDescription("Corrupt persisted values reset to defaults")); err != nil {
		return nil, fmt.Errorf("creating healed counter: %w", err)
	}

	packs, err := m.Int64ObservableGauge("wardrobe.registry.packs",
		metric.WithDescription("Packs currently registered"))
	if err != nil {
		return nil, fmt.Errorf("creating packs gauge: %w", err)
	}
	_, err = m.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(packs, int64(reg.Len()))
		return nil
	}, packs)
	if err != nil {
		return nil, fmt.Errorf("registering packs callback: %w", err)
	}

	return &mt, nil
}

func keyAttr(key string) metric.AddOption {
	return metric.WithAttributes(attribute.String("key", key))
}
