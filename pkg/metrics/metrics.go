// Package metrics holds the Prometheus collectors of the search service. Imports
// run in their own process, so the server exports the last import from the run
// ledger instead of counting imports itself.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Search outcomes.
const (
	OutcomeOK         = "ok"
	OutcomeEmptyQuery = "empty_query"
	OutcomeStorage    = "storage_error"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	searches      *prometheus.CounterVec
	searchLatency prometheus.Histogram
	searchResults prometheus.Histogram
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dpr",
			Name:      "searches_total",
			Help:      "Member searches by outcome.",
		}, []string{"outcome"}),
		searchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dpr",
			Name:      "search_duration_seconds",
			Help:      "Time spent answering a member search.",
			Buckets:   prometheus.DefBuckets,
		}),
		searchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dpr",
			Name:      "search_results",
			Help:      "Number of records returned per search.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		}),
	}
	reg.MustRegister(m.searches, m.searchLatency, m.searchResults)
	return m
}

// ObserveSearch records one search.
func (m *Metrics) ObserveSearch(outcome string, seconds float64, results int) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(outcome).Inc()
	m.searchLatency.Observe(seconds)
	if outcome == OutcomeOK {
		m.searchResults.Observe(float64(results))
	}
}

// LastImport is the part of an import ledger row exported as gauges.
type LastImport struct {
	RowsImported int
	RowsDropped  int
	OK           bool
	FinishedAt   int64 // unix seconds
}

// LastImportFunc reads the most recent import. It returns nil when none ran yet.
type LastImportFunc func() (*LastImport, error)

var (
	lastImportRowsDesc = prometheus.NewDesc("dpr_last_import_rows_imported",
		"Rows written by the most recent import.", nil, nil)
	lastImportDroppedDesc = prometheus.NewDesc("dpr_last_import_rows_dropped",
		"Rows rejected by the most recent import.", nil, nil)
	lastImportSuccessDesc = prometheus.NewDesc("dpr_last_import_success",
		"1 if the most recent import replaced the members, 0 if it failed.", nil, nil)
	lastImportTimeDesc = prometheus.NewDesc("dpr_last_import_timestamp_seconds",
		"Unix time the most recent import finished.", nil, nil)
)

// lastImportCollector reads the ledger on every scrape.
type lastImportCollector struct {
	read LastImportFunc
}

// RegisterLastImport exports the run returned by read as the dpr_last_import_*
// gauges. Nothing is exported before the first import or when read fails.
func RegisterLastImport(reg prometheus.Registerer, read LastImportFunc) {
	reg.MustRegister(&lastImportCollector{read: read})
}

func (c *lastImportCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- lastImportRowsDesc
	ch <- lastImportDroppedDesc
	ch <- lastImportSuccessDesc
	ch <- lastImportTimeDesc
}

func (c *lastImportCollector) Collect(ch chan<- prometheus.Metric) {
	last, err := c.read()
	if err != nil || last == nil {
		return
	}
	success := 0.0
	if last.OK {
		success = 1
	}
	ch <- prometheus.MustNewConstMetric(lastImportRowsDesc, prometheus.GaugeValue, float64(last.RowsImported))
	ch <- prometheus.MustNewConstMetric(lastImportDroppedDesc, prometheus.GaugeValue, float64(last.RowsDropped))
	ch <- prometheus.MustNewConstMetric(lastImportSuccessDesc, prometheus.GaugeValue, success)
	ch <- prometheus.MustNewConstMetric(lastImportTimeDesc, prometheus.GaugeValue, float64(last.FinishedAt))
}
