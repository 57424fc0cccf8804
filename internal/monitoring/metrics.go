package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	DocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "corenlp_documents_total",
			Help: "Documents seen by the batch processor",
		},
		[]string{"status"},
	)

	SentencesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "corenlp_sentences_total",
			Help: "Sentences classified by the CoreNLP pipeline",
		},
	)

	AnnotationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "corenlp_annotation_seconds",
			Help:    "Time spent annotating one document",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	BatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "corenlp_batches_total",
			Help: "Batches processed",
		},
		[]string{"status"},
	)

	CacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "corenlp_cache_lookups_total",
			Help: "Annotation cache lookups",
		},
		[]string{"result"},
	)

	MessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "corenlp_worker_messages_total",
			Help: "Kafka batch requests handled by the worker",
		},
		[]string{"status"},
	)
)

func InitMetrics(reg prometheus.Registerer) {
	reg.MustRegister(DocumentsTotal)
	reg.MustRegister(SentencesTotal)
	reg.MustRegister(AnnotationSeconds)
	reg.MustRegister(BatchesTotal)
	reg.MustRegister(CacheLookupsTotal)
	reg.MustRegister(MessagesTotal)
}
