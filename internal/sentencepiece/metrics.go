package sentencepiece

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const subsystem = "sentencepiece"

// Operation labels.
const (
	opEncode = "encode"
	opSample = "sample"
	opDecode = "decode"
)

var (
	operationsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      "operations_total",
			Help:      "Count of processor operations by operation and result.",
		},
		[]string{"op", "result"},
	)
	encodedPieces = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Subsystem: subsystem,
			Name:      "encoded_pieces",
			Help:      "Number of pieces produced per encoded text.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		},
	)
)

var registerMetrics sync.Once

// Register registers the processor metrics with reg. Only the first call has
// an effect.
func Register(reg prometheus.Registerer) {
	registerMetrics.Do(func() {
		reg.MustRegister(operationsCounter)
		reg.MustRegister(encodedPieces)
	})
}

func recordOperation(op string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	operationsCounter.WithLabelValues(op, result).Inc()
}

func recordEncodedPieces(n int) {
	encodedPieces.Observe(float64(n))
}
