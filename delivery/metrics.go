package delivery

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Submission outcomes as recorded in the outcome label.
const (
	outcomeSucceeded = "succeeded"
	outcomeFailed    = "failed"
	outcomeInvalid   = "invalid"
	outcomeAbandoned = "abandoned"
)

// Metrics counts login form submissions served by the router.
type Metrics struct {
	submissions *prometheus.CounterVec
	duration    prometheus.Histogram
}

// NewMetrics registers the submission collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "login",
			Name:      "submissions_total",
			Help:      "Login form submissions by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "login",
			Name:      "submission_duration_seconds",
			Help:      "Time from submit to settled outcome.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.submissions, m.duration)
	return m
}

func (m *Metrics) observe(outcome string, elapsed time.Duration) {
	m.submissions.WithLabelValues(outcome).Inc()
	if outcome == outcomeSucceeded || outcome == outcomeFailed {
		m.duration.Observe(elapsed.Seconds())
	}
}
