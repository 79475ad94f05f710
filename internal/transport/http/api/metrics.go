package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "api_errors_total",
	Help: "Errors translated into error envelopes, by HTTP status.",
}, []string{"status"})
