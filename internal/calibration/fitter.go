// Package calibration fits probability-recalibration mappings and scores how
// well predicted probabilities match realized outcome frequencies.
package calibration

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/itzcole03/StatMusePicksv2-sub001/internal/models"
)

// epsilon bounds calibrated probabilities away from 0 and 1
const epsilon = 1e-6

// Kind identifies a calibration method
type Kind string

const (
	KindIdentity      Kind = "identity"
	KindPlatt         Kind = "platt"
	KindIsotonic      Kind = "isotonic"
	KindIsotonicKFold Kind = "isotonic_kfold"
)

// Method is a closed tagged variant selecting a calibration fit
type Method struct {
	Kind  Kind
	Folds int
}

// ParseMethod resolves a configured method name into a Method
func ParseMethod(name string, folds int) (Method, error) {
	switch Kind(name) {
	case KindIdentity, KindPlatt, KindIsotonic:
		return Method{Kind: Kind(name)}, nil
	case KindIsotonicKFold:
		if folds < 2 {
			return Method{}, fmt.Errorf("isotonic_kfold requires at least 2 folds, got %d", folds)
		}
		return Method{Kind: KindIsotonicKFold, Folds: folds}, nil
	default:
		return Method{}, fmt.Errorf("unknown calibration method %q", name)
	}
}

func (m Method) String() string {
	if m.Kind == KindIsotonicKFold {
		return fmt.Sprintf("%s(%d)", m.Kind, m.Folds)
	}
	return string(m.Kind)
}

// Model is a fitted raw-to-calibrated probability mapping
type Model interface {
	Method() Method
	Transform(probs []float64) []float64
}

// identityModel passes raw probabilities through unchanged
type identityModel struct{}

func (identityModel) Method() Method { return Method{Kind: KindIdentity} }

func (identityModel) Transform(probs []float64) []float64 {
	out := make([]float64, len(probs))
	copy(out, probs)
	return out
}

// Identity returns the passthrough model
func Identity() Model { return identityModel{} }

// Fit trains a calibration model on the designated training split. Training
// data with fewer than 2 distinct outcome classes cannot support a fit and
// returns an error wrapping models.ErrCalibrationFit.
func Fit(trainProbs []float64, trainOutcomes []bool, method Method) (Model, error) {
	if len(trainProbs) != len(trainOutcomes) {
		return nil, fmt.Errorf("probabilities and outcomes length mismatch: %d vs %d", len(trainProbs), len(trainOutcomes))
	}
	if method.Kind == KindIdentity {
		return identityModel{}, nil
	}
	if !hasBothClasses(trainOutcomes) {
		return nil, fmt.Errorf("%w: training data has fewer than 2 outcome classes", models.ErrCalibrationFit)
	}

	switch method.Kind {
	case KindPlatt:
		return fitPlatt(trainProbs, trainOutcomes), nil
	case KindIsotonic:
		return fitIsotonic(trainProbs, trainOutcomes), nil
	case KindIsotonicKFold:
		return fitKFoldIsotonic(trainProbs, trainOutcomes, method.Folds)
	default:
		return nil, fmt.Errorf("unknown calibration method %q", method.Kind)
	}
}

// FitOrIdentity fits the requested model and falls back to the identity
// mapping when the training data cannot support a fit. The fallback is logged
// and non-fatal.
func FitOrIdentity(trainProbs []float64, trainOutcomes []bool, method Method, logger *logrus.Logger) Model {
	model, err := Fit(trainProbs, trainOutcomes, method)
	if err != nil {
		if logger != nil {
			logger.WithFields(logrus.Fields{
				"method": method.String(),
				"error":  err,
			}).Warn("Calibration fit failed, falling back to identity")
		}
		return identityModel{}
	}
	return model
}

func hasBothClasses(outcomes []bool) bool {
	sawTrue, sawFalse := false, false
	for _, outcome := range outcomes {
		if outcome {
			sawTrue = true
		} else {
			sawFalse = true
		}
		if sawTrue && sawFalse {
			return true
		}
	}
	return false
}

func clipProbability(p float64) float64 {
	if p < epsilon {
		return epsilon
	}
	if p > 1.0-epsilon {
		return 1.0 - epsilon
	}
	return p
}
