package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PredictionsTotal tracks classified texts per verdict and surface
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_predictions_total",
			Help: "Total number of texts classified",
		},
		[]string{"category", "severity", "source"},
	)

	// PredictionLatency tracks the time spent vectorizing and scoring a text
	PredictionLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "triage_prediction_latency_seconds",
			Help:    "Prediction latency in seconds",
			Buckets: []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01, .025},
		},
	)

	// IncidentsIngested tracks stored incidents per severity
	IncidentsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_incidents_ingested_total",
			Help: "Total number of incidents ingested",
		},
		[]string{"severity"},
	)

	// IncidentsPruned tracks incidents removed by the retention worker
	IncidentsPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "triage_incidents_pruned_total",
			Help: "Total number of incidents deleted by retention",
		},
	)

	// HTTPRequestsTotal tracks HTTP requests per route and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestLatency tracks HTTP handler latency
	HTTPRequestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "triage_http_request_latency_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// ModelTrainingSeconds records how long the last training run took
	ModelTrainingSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "triage_model_training_seconds",
			Help: "Duration of the last model training in seconds",
		},
	)

	// ModelVocabularySize records the number of terms known to the model
	ModelVocabularySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "triage_model_vocabulary_size",
			Help: "Number of terms in the fitted vocabulary",
		},
	)

	// DBConnectionPoolUsage tracks in-use connections as a fraction of the pool limit
	DBConnectionPoolUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "triage_db_connection_pool_usage",
			Help: "Fraction of the database connection pool in use",
		},
	)
)
