package calibration

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/itzcole03/StatMusePicksv2-sub001/internal/metrics"
)

// Split selects which rows a calibration model may train on
type Split string

const (
	// SplitTrain fits on the chronologically earliest train fraction of rows
	SplitTrain Split = "train"
	// SplitAll fits on every row; leaky by construction, diagnostic use only
	SplitAll Split = "all"
)

// Applier owns a calibration method plus split policy and produces calibrated
// probabilities for a chronologically sorted run without label leakage.
type Applier struct {
	method        Method
	split         Split
	trainFraction float64
	logger        *logrus.Logger
}

// NewApplier creates a calibration applier. trainFraction is only consulted
// for SplitTrain.
func NewApplier(method Method, split Split, trainFraction float64, logger *logrus.Logger) (*Applier, error) {
	switch split {
	case SplitTrain, SplitAll:
	default:
		return nil, fmt.Errorf("unknown calibration split %q", split)
	}
	if split == SplitTrain && (trainFraction <= 0 || trainFraction >= 1) {
		return nil, fmt.Errorf("train fraction must be in (0,1), got %v", trainFraction)
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Applier{method: method, split: split, trainFraction: trainFraction, logger: logger}, nil
}

// Method returns the configured calibration method
func (a *Applier) Method() Method { return a.method }

// Apply fits on the designated split and returns calibrated probabilities for
// every row plus the fitted model. Rows must already be in chronological
// order. For k-fold methods, training rows receive their out-of-fold values;
// held-out rows go through the full-train model. A failed fit falls back to
// identity, logged and non-fatal.
func (a *Applier) Apply(probs []float64, outcomes []bool) ([]float64, Model) {
	if len(probs) == 0 {
		return []float64{}, Identity()
	}

	trainEnd := len(probs)
	if a.split == SplitTrain {
		trainEnd = int(math.Round(a.trainFraction * float64(len(probs))))
		if trainEnd < 1 {
			trainEnd = 1
		}
		if trainEnd > len(probs) {
			trainEnd = len(probs)
		}
	} else if a.method.Kind != KindIdentity {
		a.logger.Warn("Calibration split 'all' fits on every row; training rows leak labels unless k-fold is used")
	}

	model := FitOrIdentity(probs[:trainEnd], outcomes[:trainEnd], a.method, a.logger)
	if a.method.Kind != KindIdentity && model.Method().Kind == KindIdentity {
		metrics.CalibrationFallbacksTotal.Inc()
	}

	calibrated := make([]float64, len(probs))
	if kfold, ok := model.(*KFoldModel); ok {
		copy(calibrated, kfold.TrainCalibrated())
		if trainEnd < len(probs) {
			copy(calibrated[trainEnd:], kfold.Transform(probs[trainEnd:]))
		}
	} else {
		copy(calibrated, model.Transform(probs))
	}

	a.logger.WithFields(logrus.Fields{
		"method":     model.Method().String(),
		"split":      string(a.split),
		"train_rows": trainEnd,
		"total_rows": len(probs),
	}).Info("Calibration applied")

	return calibrated, model
}

// IdentityApplier returns an applier that passes probabilities through
func IdentityApplier(logger *logrus.Logger) *Applier {
	applier, _ := NewApplier(Method{Kind: KindIdentity}, SplitAll, 0, logger)
	return applier
}
