package biometric

import (
	"fmt"
	"math"
)

// DefaultThreshold is the maximum Euclidean distance accepted as a match
// between two 128-dimension face descriptors.
const DefaultThreshold = 0.6

const (
	ModeAlwaysAccept = "always_accept"
	ModeThreshold    = "threshold"
)

// Verifier compares a presented face descriptor with the enrolled template.
type Verifier interface {
	Verify(template []float64, presented []float64) (bool, error)
}

// AlwaysAccept accepts any descriptor once a template is enrolled.
type AlwaysAccept struct{}

func (AlwaysAccept) Verify(template []float64, presented []float64) (bool, error) {
	return len(template) > 0, nil
}

// ThresholdMatch accepts when the distance between descriptors is within Threshold.
type ThresholdMatch struct {
	Threshold float64
}

func NewThresholdMatch(threshold float64) ThresholdMatch {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return ThresholdMatch{Threshold: threshold}
}

func (m ThresholdMatch) Verify(template []float64, presented []float64) (bool, error) {
	if len(template) == 0 || len(presented) == 0 {
		return false, nil
	}
	if len(template) != len(presented) {
		return false, nil
	}

	d, err := Distance(template, presented)
	if err != nil {
		return false, err
	}
	return d <= m.Threshold, nil
}

// Distance is the Euclidean distance between two descriptors of equal length.
func Distance(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("descriptor length mismatch: %d != %d", len(a), len(b))
	}
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum), nil
}

// New picks a verifier by configured mode.
func New(mode string, threshold float64) (Verifier, error) {
	switch mode {
	case ModeAlwaysAccept:
		return AlwaysAccept{}, nil
	case ModeThreshold, "":
		return NewThresholdMatch(threshold), nil
	default:
		return nil, fmt.Errorf("unknown biometric mode %q", mode)
	}
}
