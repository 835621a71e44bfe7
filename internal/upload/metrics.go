package upload

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var sinkDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tipenter_sink_deliveries_total",
	Help: "Persistence sink deliveries by sink and outcome.",
}, []string{"sink", "outcome"})
