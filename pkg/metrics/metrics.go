// Package metrics exposes the outcome of an analysis run as Prometheus
// metrics. Runs are one-shot, so the metrics are written in textfile
// collector format for node_exporter to pick up, rather than served.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/psaab/jprune/pkg/config"
	"github.com/psaab/jprune/pkg/sweep"
)

// Collector implements prometheus.Collector over a finished run. The
// sweep result may be nil for report-only runs.
type Collector struct {
	graph    *config.Graph
	result   *sweep.Result
	warnings uint64

	entities         *prometheus.Desc
	entitiesMissing  *prometheus.Desc
	entitiesUnused   *prometheus.Desc
	entitiesInactive *prometheus.Desc
	deletedEntities  *prometheus.Desc
	sweepPasses      *prometheus.Desc
	parseWarnings    *prometheus.Desc
}

func NewCollector(g *config.Graph, res *sweep.Result, warnings uint64) *Collector {
	return &Collector{
		graph:    g,
		result:   res,
		warnings: warnings,

		entities: prometheus.NewDesc(
			"jprune_entities",
			"Entities remaining after the run, by kind.",
			[]string{"kind"}, nil,
		),
		entitiesMissing: prometheus.NewDesc(
			"jprune_entities_missing",
			"Entities referenced but never declared.",
			nil, nil,
		),
		entitiesUnused: prometheus.NewDesc(
			"jprune_entities_unused",
			"Declared entities nothing references.",
			nil, nil,
		),
		entitiesInactive: prometheus.NewDesc(
			"jprune_entities_inactive",
			"Entities whose latest declaration is inactive.",
			nil, nil,
		),
		deletedEntities: prometheus.NewDesc(
			"jprune_deleted_entities",
			"Entities removed by the cleanup sweep, by kind.",
			[]string{"kind"}, nil,
		),
		sweepPasses: prometheus.NewDesc(
			"jprune_sweep_passes",
			"Sweep passes performed.",
			nil, nil,
		),
		parseWarnings: prometheus.NewDesc(
			"jprune_parse_warnings",
			"Warnings emitted while parsing.",
			nil, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entities
	ch <- c.entitiesMissing
	ch <- c.entitiesUnused
	ch <- c.entitiesInactive
	ch <- c.deletedEntities
	ch <- c.sweepPasses
	ch <- c.parseWarnings
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	byKind := make(map[config.Kind]int)
	var missing, unused, inactive int
	c.graph.Walk(func(e *config.Entity) bool {
		byKind[e.Kind]++
		if e.Missing() {
			missing++
		}
		if e.Declared && len(e.ReferencedBy) == 0 {
			unused++
		}
		if e.Inactive {
			inactive++
		}
		return true
	})

	for _, k := range config.Kinds() {
		ch <- prometheus.MustNewConstMetric(c.entities, prometheus.GaugeValue,
			float64(byKind[k]), k.String())
	}
	ch <- prometheus.MustNewConstMetric(c.entitiesMissing, prometheus.GaugeValue,
		float64(missing))
	ch <- prometheus.MustNewConstMetric(c.entitiesUnused, prometheus.GaugeValue,
		float64(unused))
	ch <- prometheus.MustNewConstMetric(c.entitiesInactive, prometheus.GaugeValue,
		float64(inactive))
	ch <- prometheus.MustNewConstMetric(c.parseWarnings, prometheus.GaugeValue,
		float64(c.warnings))

	if c.result == nil {
		return
	}
	for _, k := range config.Kinds() {
		ch <- prometheus.MustNewConstMetric(c.deletedEntities, prometheus.GaugeValue,
			float64(c.result.DeletedByKind[k]), k.String())
	}
	ch <- prometheus.MustNewConstMetric(c.sweepPasses, prometheus.GaugeValue,
		float64(c.result.Passes))
}

// WriteTextfile writes the collector's metrics to path in the exposition
// format node_exporter's textfile collector reads.
func WriteTextfile(path string, c *Collector) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(c); err != nil {
		return err
	}
	return prometheus.WriteToTextfile(path, reg)
}
