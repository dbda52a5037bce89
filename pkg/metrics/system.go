package metrics

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"go.opentelemetry.io/otel/metric"
)

// RegisterSystemGauges reports host CPU and memory usage at every collection.
func RegisterSystemGauges(provider metric.MeterProvider) error {
	meter := provider.Meter(instrumentationName)

	cpuGauge, err := meter.Float64ObservableGauge(
		"system.cpu.usage",
		metric.WithDescription("CPU utilisation across all cores"),
		metric.WithUnit("%"),
	)
	if err != nil {
		return fmt.Errorf("failed to create system.cpu.usage gauge: %w", err)
	}

	memGauge, err := meter.Float64ObservableGauge(
		"system.memory.usage",
		metric.WithDescription("Share of physical memory in use"),
		metric.WithUnit("%"),
	)
	if err != nil {
		return fmt.Errorf("failed to create system.memory.usage gauge: %w", err)
	}

	_, err = meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		if percents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percents) > 0 {
			o.ObserveFloat64(cpuGauge, percents[0])
		}
		if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
			o.ObserveFloat64(memGauge, vm.UsedPercent)
		}
		return nil
	}, cpuGauge, memGauge)
	if err != nil {
		return fmt.Errorf("failed to register system gauges: %w", err)
	}

	return nil
}
