package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	reportsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "branch_report",
		Subsystem: "reports",
		Name:      "submitted_total",
		Help:      "Reports created or resubmitted, by report type and kind.",
	}, []string{"type", "kind"})

	reportsReviewed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "branch_report",
		Subsystem: "reports",
		Name:      "reviewed_total",
		Help:      "Report reviews, by resulting status.",
	}, []string{"status"})

	accessDenied = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "branch_report",
		Subsystem: "access",
		Name:      "denied_total",
		Help:      "Requests refused by the access rules, by reason.",
	}, []string{"reason"})

	hierarchyCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "branch_report",
		Subsystem: "branch",
		Name:      "hierarchy_cache_total",
		Help:      "Branch hierarchy lookups, by cache result.",
	}, []string{"result"})

	streamConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "branch_report",
		Subsystem: "notifications",
		Name:      "stream_connections",
		Help:      "Open notification streams.",
	})
)

// Access denial reasons.
const (
	ReasonPermission = "permission"
	ReasonBranch     = "branch"
	ReasonEdit       = "edit"
)

func RecordReportSubmitted(reportType string, resubmission bool) {
	kind := "new"
	if resubmission {
		kind = "resubmission"
	}
	reportsSubmitted.WithLabelValues(reportType, kind).Inc()
}

func RecordReportReviewed(status string) {
	reportsReviewed.WithLabelValues(status).Inc()
}

func RecordAccessDenied(reason string) {
	accessDenied.WithLabelValues(reason).Inc()
}

func RecordHierarchyCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	hierarchyCache.WithLabelValues(result).Inc()
}

// StreamOpened counts an open notification stream and returns its release.
func StreamOpened() func() {
	streamConnections.Inc()
	return streamConnections.Dec
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
