package calibration

import (
	"fmt"
	"sync"

	"github.com/itzcole03/StatMusePicksv2-sub001/internal/models"
)

// KFoldModel combines out-of-fold calibrated values for the training rows with
// a final isotonic model fitted on all training rows for held-out data. The
// out-of-fold values keep the training rows leakage-free.
type KFoldModel struct {
	folds           int
	final           *isotonicModel
	trainCalibrated []float64
}

func (m *KFoldModel) Method() Method { return Method{Kind: KindIsotonicKFold, Folds: m.folds} }

// Transform applies the full-train model; intended for genuinely held-out rows
func (m *KFoldModel) Transform(probs []float64) []float64 {
	return m.final.Transform(probs)
}

// TrainCalibrated returns the out-of-fold calibrated probability for each
// training row, in training order.
func (m *KFoldModel) TrainCalibrated() []float64 {
	out := make([]float64, len(m.trainCalibrated))
	copy(out, m.trainCalibrated)
	return out
}

// fitKFoldIsotonic partitions training rows into folds round-robin by index,
// fits each fold's model on the other folds concurrently, and predicts the
// held-out fold. Aggregation waits on every fold before the final model is
// fitted on all rows.
func fitKFoldIsotonic(probs []float64, outcomes []bool, folds int) (*KFoldModel, error) {
	if folds > len(probs) {
		folds = len(probs)
	}
	if folds < 2 {
		return nil, fmt.Errorf("%w: need at least 2 rows for k-fold isotonic", models.ErrCalibrationFit)
	}

	calibrated := make([]float64, len(probs))
	foldErrs := make([]error, folds)

	var wg sync.WaitGroup
	for fold := 0; fold < folds; fold++ {
		wg.Add(1)
		go func(fold int) {
			defer wg.Done()
			foldErrs[fold] = calibrateFold(probs, outcomes, folds, fold, calibrated)
		}(fold)
	}
	wg.Wait()

	degenerate := 0
	for _, err := range foldErrs {
		if err != nil {
			degenerate++
		}
	}
	if degenerate == folds {
		return nil, fmt.Errorf("%w: every fold was single-class", models.ErrCalibrationFit)
	}

	return &KFoldModel{
		folds:           folds,
		final:           fitIsotonic(probs, outcomes),
		trainCalibrated: calibrated,
	}, nil
}

// calibrateFold fits on all rows outside the fold and writes predictions for
// the fold's own rows. Fold membership is index % folds, deterministic across
// runs. Each goroutine writes a disjoint index set, so no locking is needed.
func calibrateFold(probs []float64, outcomes []bool, folds, fold int, calibrated []float64) error {
	trainProbs := make([]float64, 0, len(probs))
	trainOutcomes := make([]bool, 0, len(outcomes))
	for i := range probs {
		if i%folds != fold {
			trainProbs = append(trainProbs, probs[i])
			trainOutcomes = append(trainOutcomes, outcomes[i])
		}
	}

	if !hasBothClasses(trainOutcomes) {
		// Single-class fold complement: pass raw values through rather than fail
		for i := range probs {
			if i%folds == fold {
				calibrated[i] = clipProbability(probs[i])
			}
		}
		return fmt.Errorf("fold %d complement is single-class", fold)
	}

	model := fitIsotonic(trainProbs, trainOutcomes)
	for i := range probs {
		if i%folds == fold {
			calibrated[i] = model.predict(probs[i])
		}
	}
	return nil
}
