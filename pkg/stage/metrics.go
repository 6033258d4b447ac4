package stage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	validationRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hdfsconn",
		Subsystem: "validation",
		Name:      "runs_total",
		Help:      "Connection validation runs by outcome (valid/invalid).",
	}, []string{"outcome"})

	probeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hdfsconn",
		Subsystem: "validation",
		Name:      "probe_failures_total",
		Help:      "Permission probe failures by issue code.",
	}, []string{"code"})
)
