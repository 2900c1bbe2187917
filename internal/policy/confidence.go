// Package policy holds the confidence thresholds that decide whether a
// classifier prediction counts as a recognition and whether it may be saved.
package policy

import "fmt"

const (
	DefaultFloor  = 0.30
	DefaultAccept = 0.90
)

type Verdict string

const (
	VerdictRejected   Verdict = "rejected"
	VerdictRecognized Verdict = "recognized"
	VerdictAccepted   Verdict = "accepted"
)

// Confidence is the single owner of both thresholds. Floor separates a
// prediction from noise; Accept is the bar for a collectable match.
type Confidence struct {
	Floor  float64 `json:"floor"`
	Accept float64 `json:"accept"`
}

func Default() Confidence {
	return Confidence{Floor: DefaultFloor, Accept: DefaultAccept}
}

func (p Confidence) Validate() error {
	if p.Floor < 0 || p.Accept > 1 || p.Floor > p.Accept {
		return fmt.Errorf("confidence policy requires 0 <= floor <= accept <= 1, got floor=%.2f accept=%.2f", p.Floor, p.Accept)
	}
	return nil
}

func (p Confidence) Recognizes(c float64) bool { return c >= p.Floor }

func (p Confidence) Accepts(c float64) bool { return c >= p.Accept }

func (p Confidence) Verdict(c float64) Verdict {
	switch {
	case p.Accepts(c):
		return VerdictAccepted
	case p.Recognizes(c):
		return VerdictRecognized
	default:
		return VerdictRejected
	}
}
