package services

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keeper_request_total",
			Help: "Total management API requests",
		},
		[]string{"route"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "keeper_request_duration_seconds",
			Help:    "Duration of management API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	requestErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keeper_request_errors_total",
			Help: "Management API requests answered with status >= 400",
		},
		[]string{"route"},
	)

	stepRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keeper_provision_step_total",
			Help: "Provisioning step executions by result",
		},
		[]string{"step", "result"},
	)

	stepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "keeper_provision_step_duration_seconds",
			Help: "Duration of provisioning steps",
			// apt upgrade在慢一点的VPS上可能要几分钟
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"step"},
	)
)

func init() {
	prometheus.MustRegister(requestCount)
	prometheus.MustRegister(requestDuration)
	prometheus.MustRegister(requestErrors)
	prometheus.MustRegister(stepRuns)
	prometheus.MustRegister(stepDuration)
}

// IncrementRequestCount 增加指定路由的请求计数
func IncrementRequestCount(route string) {
	requestCount.WithLabelValues(route).Inc()
}

// RecordRequestDuration 记录指定路由的请求耗时
func RecordRequestDuration(route string, seconds float64) {
	requestDuration.WithLabelValues(route).Observe(seconds)
}

// IncrementErrorCount 增加指定路由的错误请求计数
func IncrementErrorCount(route string) {
	requestErrors.WithLabelValues(route).Inc()
}

/**
 * Record the outcome of one provisioning step execution
 * @param {string} step - Step identifier
 * @param {float64} seconds - Wall time the step took
 * @param {error} err - Step error, nil on success
 */
func RecordStepResult(step string, seconds float64, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	stepRuns.WithLabelValues(step, result).Inc()
	stepDuration.WithLabelValues(step).Observe(seconds)
}
