package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	StoreOperationDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "board_store_operation_duration_seconds",
			Help:       "Duration of each store operation, simulated latency included.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"operation"},
	)
	MessagesSentCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_messages_sent_total",
			Help: "Total number of chat messages sent.",
		},
		[]string{"kind"},
	)
	JobsCreatedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "board_jobs_created_total",
			Help: "Total number of job listings created.",
		},
	)
	ConversationsDerivedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "board_conversations_derived_total",
			Help: "Total number of conversation list derivations.",
		},
	)
)

func StartMetricsServer(port int) {

	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(StoreOperationDuration)
	prometheus.MustRegister(MessagesSentCounter)
	prometheus.MustRegister(JobsCreatedCounter)
	prometheus.MustRegister(ConversationsDerivedCounter)

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", port), nil))
	}()
}
