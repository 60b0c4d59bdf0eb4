// Package metrics defines the Prometheus collectors for plan generation and
// an events handler that keeps them current.
package metrics

import (
	"context"
	"sync"

	"github.com/dumblesdoor/socialkit/internal/events"
	"github.com/prometheus/client_golang/prometheus"
)

// Result labels for settled requests.
const (
	ResultSuccess            = "success"
	ResultConfigurationError = "configuration_error"
	ResultServiceError       = "service_error"
)

// Rejection reasons for submissions that never started a request.
const (
	ReasonValidation = "validation"
	ReasonBusy       = "busy"
)

var (
	once sync.Once

	// PlansInFlight is 1 while a generation request is running.
	PlansInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "socialkit",
		Subsystem: "plan",
		Name:      "requests_in_flight",
		Help:      "Number of plan generation requests currently in flight (0 or 1).",
	})

	// PlansSettledTotal counts settled generation requests by result.
	PlansSettledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "socialkit",
		Subsystem: "plan",
		Name:      "requests_total",
		Help:      "Total number of settled plan generation requests, labeled by result.",
	}, []string{"result"})

	// PlanDurationSeconds is the time from submit to settlement.
	PlanDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "socialkit",
		Subsystem: "plan",
		Name:      "request_duration_seconds",
		Help:      "Time from submission to settlement of a plan generation request.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{"result"})

	// SubmissionsRejectedTotal counts submissions that did not start a request.
	SubmissionsRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "socialkit",
		Subsystem: "plan",
		Name:      "submissions_rejected_total",
		Help:      "Total number of rejected plan submissions, labeled by reason.",
	}, []string{"reason"})
)

// Register registers the collectors with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			PlansInFlight,
			PlansSettledTotal,
			PlanDurationSeconds,
			SubmissionsRejectedTotal,
		)
	})
}

// Recorder updates the collectors from controller state changes.
type Recorder struct{}

var _ events.EventHandler = Recorder{}

// HandleEvent implements events.EventHandler.
func (Recorder) HandleEvent(_ context.Context, e *events.StateChangeEvent) error {
	switch {
	case e.To == events.StateLoading:
		PlansInFlight.Set(1)
	case e.Settled():
		PlansInFlight.Set(0)
		result := resultLabel(e)
		PlansSettledTotal.WithLabelValues(result).Inc()
		PlanDurationSeconds.WithLabelValues(result).Observe(e.Elapsed.Seconds())
	case e.ErrorKind == events.KindValidation:
		SubmissionsRejectedTotal.WithLabelValues(ReasonValidation).Inc()
	}
	return nil
}

// RecordBusy counts a submission rejected because a request was in flight.
func RecordBusy() {
	SubmissionsRejectedTotal.WithLabelValues(ReasonBusy).Inc()
}

func resultLabel(e *events.StateChangeEvent) string {
	switch {
	case e.To == events.StateSuccess:
		return ResultSuccess
	case e.ErrorKind == events.KindConfiguration:
		return ResultConfigurationError
	default:
		return ResultServiceError
	}
}
