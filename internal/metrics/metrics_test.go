package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementLoginAttempt(OutcomeSuccess)
	m.IncrementLoginAttempt(OutcomeInvalidCredentials)
	m.IncrementLoginAttempt(OutcomeInvalidCredentials)
	m.IncrementLockouts()
	m.IncrementTokensIssued()
	m.AddExpiredBlocksPurged(4)
	m.IncrementCleanupRuns("success")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.LoginAttemptsTotal.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.LoginAttemptsTotal.WithLabelValues(OutcomeInvalidCredentials)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.LockoutsTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.TokensIssuedTotal))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.ExpiredBlocksPurgedTotal))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CleanupRunsTotal.WithLabelValues("success")))
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementLoginAttempt(OutcomeBlocked)
		m.IncrementLockouts()
		m.IncrementTokensIssued()
		m.AddExpiredBlocksPurged(1)
		m.IncrementCleanupRuns("error")
		m.ObserveCleanupDuration(0.1)
	})
}
