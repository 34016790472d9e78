// Package metrics holds the metric catalog of meterexporter: the set of
// Prometheus series created at runtime from ingested readings, together with
// the registry that the exposition endpoint scrapes.
package metrics

import (
	"errors"
	"slices"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/common/model"

	apperrors "github.com/anstrom/meterexporter/internal/errors"
)

// Options selects the default collectors folded into the exposition.
type Options struct {
	GoCollector      bool
	ProcessCollector bool
}

// DefaultOptions enables both runtime collectors.
func DefaultOptions() Options {
	return Options{
		GoCollector:      true,
		ProcessCollector: true,
	}
}

type gaugeEntry struct {
	vec        *prometheus.GaugeVec
	labelNames []string
}

// Catalog owns every series known to the process. Gauges are looked up by
// metric name and created on first use; a name is bound to the label schema
// it was created with for the lifetime of the catalog.
type Catalog struct {
	registry *prometheus.Registry

	mu     sync.Mutex
	gauges map[string]*gaugeEntry

	readingsTotal prometheus.Counter
	tankLevel     *prometheus.GaugeVec
	tankVolume    *prometheus.GaugeVec
	tankAdded     *prometheus.GaugeVec
}

// NewCatalog creates a catalog backed by a fresh Prometheus registry.
func NewCatalog(opts Options) *Catalog {
	c := &Catalog{
		registry: prometheus.NewRegistry(),
		gauges:   make(map[string]*gaugeEntry),
	}

	c.readingsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: MetricReadingsTotal,
		Help: "Total number of meter readings received",
	})
	c.registry.MustRegister(c.readingsTotal)

	c.tankLevel = c.mustGaugeVec(MetricTankLevel, "Current level of the tank", LabelTankName)
	c.tankVolume = c.mustGaugeVec(MetricTankVolume, "Volume of liquid in the tank", LabelTankName)
	c.tankAdded = c.mustGaugeVec(MetricTankAddedConsumption, "Added consumption of liquid in the tank", LabelTankName)

	if opts.GoCollector {
		c.registry.MustRegister(collectors.NewGoCollector())
	}
	if opts.ProcessCollector {
		c.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	return c
}

func (c *Catalog) mustGaugeVec(name, help string, labelNames ...string) *prometheus.GaugeVec {
	vec, err := c.GaugeVec(name, help, labelNames...)
	if err != nil {
		panic(err)
	}
	return vec
}

// GaugeVec returns the gauge registered under name, creating and registering
// it on first use. Asking for an existing name with a different label schema
// is a METRIC_CONFLICT error. Names must match the classic Prometheus grammar
// [a-zA-Z_:][a-zA-Z0-9_:]*, otherwise the error is INVALID_METRIC: the text
// exposition escapes other characters to underscores, so "meter-1" and
// "meter_1" would be written as two families with the same name.
func (c *Catalog) GaugeVec(name, help string, labelNames ...string) (*prometheus.GaugeVec, error) {
	if !model.LegacyValidation.IsValidMetricName(name) {
		return nil, apperrors.NewCatalogError(apperrors.CodeInvalidMetric,
			"metric name must match [a-zA-Z_:][a-zA-Z0-9_:]*", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if name == MetricReadingsTotal {
		return nil, apperrors.NewCatalogError(apperrors.CodeMetricConflict,
			"metric name is reserved for the readings counter", name)
	}

	if entry, ok := c.gauges[name]; ok {
		if !slices.Equal(entry.labelNames, labelNames) {
			return nil, apperrors.NewCatalogError(apperrors.CodeMetricConflict,
				"metric already registered with a different label schema", name)
		}
		return entry.vec, nil
	}

	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	}, labelNames)

	if err := c.registry.Register(vec); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return nil, apperrors.WrapCatalogError(apperrors.CodeMetricConflict,
				"metric name collides with an existing collector", name, err)
		}
		return nil, apperrors.WrapCatalogError(apperrors.CodeInvalidMetric,
			"metric cannot be registered", name, err)
	}

	c.gauges[name] = &gaugeEntry{
		vec:        vec,
		labelNames: slices.Clone(labelNames),
	}
	return vec, nil
}

// Set overwrites the value of the series selected by labelValues. The number
// of label values must match the gauge's schema; a mismatch panics.
func (c *Catalog) Set(vec *prometheus.GaugeVec, value float64, labelValues ...string) {
	vec.WithLabelValues(labelValues...).Set(value)
}

// IncReadings increments the global meter readings counter.
func (c *Catalog) IncReadings() {
	c.readingsTotal.Inc()
}

// TankLevel returns the tank_level gauge.
func (c *Catalog) TankLevel() *prometheus.GaugeVec {
	return c.tankLevel
}

// TankVolume returns the tank_volume gauge.
func (c *Catalog) TankVolume() *prometheus.GaugeVec {
	return c.tankVolume
}

// TankAddedConsumption returns the tank_added_consumption gauge.
func (c *Catalog) TankAddedConsumption() *prometheus.GaugeVec {
	return c.tankAdded
}

// ReadingsTotal returns the meter readings counter.
func (c *Catalog) ReadingsTotal() prometheus.Counter {
	return c.readingsTotal
}

// Len returns the number of gauge families in the catalog, built-ins included.
func (c *Catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.gauges)
}

// Gatherer returns the registry for the exposition handler.
func (c *Catalog) Gatherer() prometheus.Gatherer {
	return c.registry
}

// Registerer returns the registry so other components can add collectors
// that are exposed alongside the catalog.
func (c *Catalog) Registerer() prometheus.Registerer {
	return c.registry
}
