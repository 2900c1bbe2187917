// Package classifier sends landmark photos to a hosted image classifier and
// normalises whatever it answers into a ranked list of predictions.
package classifier

import (
	"context"
	"fmt"

	"xplore/internal/policy"
	"xplore/pkg/utils"
)

type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Prediction struct {
	Class       string       `json:"class"`
	Confidence  float64      `json:"confidence"`
	BoundingBox *BoundingBox `json:"boundingBox,omitempty"`
}

type Failure string

const (
	FailureInvalidInput        Failure = "invalid_input"
	FailureNetwork             Failure = "network"
	FailureTimeout             Failure = "timeout"
	FailureUpstreamRejected    Failure = "upstream_rejected"
	FailureUpstreamUnavailable Failure = "upstream_unavailable"
	FailureEmpty               Failure = "empty"
	FailureLowConfidence       Failure = "low_confidence"
)

// Result is the outcome of one classification. Failures are values, not
// errors: callers switch on Failure.
type Result struct {
	OK          bool
	Failure     Failure
	Message     string
	StatusCode  int
	Predictions []Prediction
	Best        *Prediction
}

// Err converts a failed result into the service error used for HTTP mapping.
func (r Result) Err() error {
	if r.OK {
		return nil
	}
	switch r.Failure {
	case FailureInvalidInput:
		return fmt.Errorf("%w: %s", utils.ErrInvalidImage, r.Message)
	case FailureTimeout:
		return fmt.Errorf("%w: %s", utils.ErrClassifierTimeout, r.Message)
	case FailureNetwork, FailureUpstreamRejected, FailureUpstreamUnavailable:
		return fmt.Errorf("%w: %s", utils.ErrClassifierFailed, r.Message)
	default:
		return fmt.Errorf("%w: %s", utils.ErrRecognitionFailed, r.Message)
	}
}

type Classifier interface {
	Name() string
	Classify(ctx context.Context, image []byte) Result
}

func failed(f Failure, status int, format string, args ...interface{}) Result {
	return Result{Failure: f, StatusCode: status, Message: fmt.Sprintf(format, args...)}
}

// Evaluate applies the confidence floor to a normalised prediction list.
// Low-confidence results keep their predictions for diagnostics.
func Evaluate(preds []Prediction, p policy.Confidence) Result {
	if len(preds) == 0 {
		return failed(FailureEmpty, 0, "classifier returned no predictions")
	}
	best := preds[0]
	if !p.Recognizes(best.Confidence) {
		res := failed(FailureLowConfidence, 0, "low confidence: %.2f is below %.2f", best.Confidence, p.Floor)
		res.Predictions = preds
		res.Best = &best
		return res
	}
	return Result{OK: true, Predictions: preds, Best: &best}
}
