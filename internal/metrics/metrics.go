package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Login outcome labels
const (
	OutcomeSuccess            = "success"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeBlocked            = "blocked"
	OutcomeError              = "error"
)

// Metrics holds the auth collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	LoginAttemptsTotal       *prometheus.CounterVec
	LockoutsTotal            prometheus.Counter
	TokensIssuedTotal        prometheus.Counter
	ExpiredBlocksPurgedTotal prometheus.Counter
	CleanupRunsTotal         *prometheus.CounterVec
	CleanupDurationSeconds   prometheus.Histogram
}

// New registers the collectors with reg. Pass prometheus.DefaultRegisterer in main
// and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LoginAttemptsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gymcrm_auth_login_attempts_total",
			Help: "Total number of login attempts by outcome",
		}, []string{"outcome"}),
		LockoutsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "gymcrm_auth_lockouts_total",
			Help: "Total number of accounts blocked after repeated failures",
		}),
		TokensIssuedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "gymcrm_auth_tokens_issued_total",
			Help: "Total number of bearer tokens issued",
		}),
		ExpiredBlocksPurgedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "gymcrm_auth_expired_blocks_purged_total",
			Help: "Total number of expired block records removed by cleanup",
		}),
		CleanupRunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gymcrm_auth_cleanup_runs_total",
			Help: "Total number of cleanup runs",
		}, []string{"status"}),
		CleanupDurationSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name: "gymcrm_auth_cleanup_duration_seconds",
			Help: "Duration of cleanup runs in seconds",
		}),
	}
}

func (m *Metrics) IncrementLoginAttempt(outcome string) {
	if m == nil {
		return
	}
	m.LoginAttemptsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementLockouts() {
	if m == nil {
		return
	}
	m.LockoutsTotal.Inc()
}

func (m *Metrics) IncrementTokensIssued() {
	if m == nil {
		return
	}
	m.TokensIssuedTotal.Inc()
}

func (m *Metrics) AddExpiredBlocksPurged(count int64) {
	if m == nil {
		return
	}
	m.ExpiredBlocksPurgedTotal.Add(float64(count))
}

func (m *Metrics) IncrementCleanupRuns(status string) {
	if m == nil {
		return
	}
	m.CleanupRunsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveCleanupDuration(durationSeconds float64) {
	if m == nil {
		return
	}
	m.CleanupDurationSeconds.Observe(durationSeconds)
}
