package prometheus

import (
	"strconv"
	"time"

	"github.com/turtacn/sscs-case-core/pkg/errors"
)

var (
	durationBuckets   = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}
	collectionBuckets = []float64{0, 1, 2, 3, 4, 5, 6, 7}
)

// CaseMetrics holds every metric the case core records. It satisfies the
// observer ports of the dwp resolver, the case store client, the case cache
// and the caseupdate service.
type CaseMetrics struct {
	// DWP office lookups
	OfficeLookups CounterVec

	// Case workflow
	Normalizations         CounterVec
	CollectionsSorted      HistogramVec
	TranslationTransitions CounterVec
	WorkflowTotal          CounterVec
	WorkflowDuration       HistogramVec

	// Case store
	StoreRequests        CounterVec
	StoreRequestDuration HistogramVec

	// Case cache
	CacheLookups CounterVec
}

// NewCaseMetrics registers the case metrics on collector.
func NewCaseMetrics(collector MetricsCollector) *CaseMetrics {
	return &CaseMetrics{
		OfficeLookups: collector.RegisterCounter("dwp_office_lookups_total",
			"DWP office lookups by benefit and outcome", "benefit", "outcome"),

		Normalizations: collector.RegisterCounter("case_normalizations_total",
			"Case records put into canonical collection order"),
		CollectionsSorted: collector.RegisterHistogram("case_collections_sorted",
			"Non-empty collections sorted per normalization", collectionBuckets),
		TranslationTransitions: collector.RegisterCounter("translation_work_outstanding_transitions_total",
			"Cases whose translation work flag moved from No to Yes"),
		WorkflowTotal: collector.RegisterCounter("case_workflow_operations_total",
			"Case workflow operations by operation and result code", "operation", "code"),
		WorkflowDuration: collector.RegisterHistogram("case_workflow_duration_seconds",
			"Case workflow operation latency", durationBuckets, "operation"),

		StoreRequests: collector.RegisterCounter("case_store_requests_total",
			"Case store calls by operation and HTTP status", "operation", "status"),
		StoreRequestDuration: collector.RegisterHistogram("case_store_request_duration_seconds",
			"Case store call latency including retries", durationBuckets, "operation"),

		CacheLookups: collector.RegisterCounter("case_cache_lookups_total",
			"Case cache lookups by result", "result"),
	}
}

// ObserveOfficeLookup records one DWP office lookup.
func (m *CaseMetrics) ObserveOfficeLookup(benefit, outcome string) {
	if benefit == "" {
		benefit = "none"
	}
	m.OfficeLookups.WithLabelValues(benefit, outcome).Inc()
}

// ObserveNormalization records one normalization and how many collections it sorted.
func (m *CaseMetrics) ObserveNormalization(collections int) {
	m.Normalizations.WithLabelValues().Inc()
	m.CollectionsSorted.WithLabelValues().Observe(float64(collections))
}

func (m *CaseMetrics) ObserveTranslationTransition() {
	m.TranslationTransitions.WithLabelValues().Inc()
}

// ObserveWorkflow records a caseupdate operation labelled with its error code.
func (m *CaseMetrics) ObserveWorkflow(operation string, err error, elapsed time.Duration) {
	m.WorkflowTotal.WithLabelValues(operation, errors.GetCode(err).String()).Inc()
	m.WorkflowDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveStoreCall records a case store call. A zero status means no
// response was received.
func (m *CaseMetrics) ObserveStoreCall(operation string, status int, err error, elapsed time.Duration) {
	label := strconv.Itoa(status)
	if status == 0 {
		label = "error"
	}
	m.StoreRequests.WithLabelValues(operation, label).Inc()
	m.StoreRequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (m *CaseMetrics) ObserveCacheLookup(result string) {
	m.CacheLookups.WithLabelValues(result).Inc()
}
