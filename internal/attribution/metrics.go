package attribution

import "github.com/prometheus/client_golang/prometheus"

var (
	predictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attribgraph_predictions_total",
			Help: "Prediction calls by outcome.",
		},
		[]string{"outcome"},
	)
	modelLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attribgraph_model_loads_total",
			Help: "Model load attempts by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(predictionsTotal, modelLoadsTotal)
}
