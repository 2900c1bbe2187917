package classifier

import (
	"context"
	"time"

	"xplore/pkg/logger"
	"xplore/pkg/metrics"
)

type instrumented struct {
	next Classifier
	log  *logger.Logger
}

// Instrument wraps a classifier with Prometheus metrics and a log line per
// call.
func Instrument(next Classifier, log *logger.Logger) Classifier {
	if log == nil {
		log = logger.NewNop()
	}
	return &instrumented{next: next, log: log}
}

func (i *instrumented) Name() string { return i.next.Name() }

func (i *instrumented) Classify(ctx context.Context, image []byte) Result {
	start := time.Now()
	res := i.next.Classify(ctx, image)
	elapsed := time.Since(start)

	outcome := "ok"
	if !res.OK {
		outcome = string(res.Failure)
	}
	metrics.ClassifierRequestsTotal.WithLabelValues(i.next.Name(), outcome).Inc()
	metrics.ClassifierDuration.WithLabelValues(i.next.Name()).Observe(elapsed.Seconds())

	kv := []interface{}{"provider", i.next.Name(), "outcome", outcome, "elapsed", elapsed, "bytes", len(image)}
	if res.Best != nil {
		kv = append(kv, "best_class", res.Best.Class, "best_confidence", res.Best.Confidence)
	}
	switch res.Failure {
	case "", FailureLowConfidence, FailureEmpty:
		i.log.Info("classification finished", kv...)
	default:
		i.log.Warn("classification failed", append(kv, "message", res.Message)...)
	}
	return res
}
