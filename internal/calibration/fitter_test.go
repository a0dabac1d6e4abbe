package calibration

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itzcole03/StatMusePicksv2-sub001/internal/models"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		name    string
		folds   int
		want    Kind
		wantErr bool
	}{
		{name: "identity", want: KindIdentity},
		{name: "platt", want: KindPlatt},
		{name: "isotonic", want: KindIsotonic},
		{name: "isotonic_kfold", folds: 5, want: KindIsotonicKFold},
		{name: "isotonic_kfold", folds: 1, wantErr: true},
		{name: "spline", wantErr: true},
	}
	for _, tc := range tests {
		method, err := ParseMethod(tc.name, tc.folds)
		if tc.wantErr {
			assert.Error(t, err, "%s/%d", tc.name, tc.folds)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tc.want, method.Kind)
	}
}

func TestFitSingleClassFails(t *testing.T) {
	probs := []float64{0.2, 0.5, 0.8}
	outcomes := []bool{true, true, true}

	for _, kind := range []Kind{KindPlatt, KindIsotonic} {
		_, err := Fit(probs, outcomes, Method{Kind: kind})
		require.Error(t, err, string(kind))
		assert.True(t, errors.Is(err, models.ErrCalibrationFit), string(kind))
	}
}

func TestFitOrIdentityFallsBack(t *testing.T) {
	probs := []float64{0.2, 0.5, 0.8}
	outcomes := []bool{false, false, false}

	model := FitOrIdentity(probs, outcomes, Method{Kind: KindIsotonic}, logrus.New())
	assert.Equal(t, KindIdentity, model.Method().Kind)
	assert.Equal(t, probs, model.Transform(probs))
}

func TestIdentityPassthrough(t *testing.T) {
	probs := []float64{0.0, 0.25, 0.5, 0.75, 1.0}
	model, err := Fit(probs, []bool{false, false, true, true, true}, Method{Kind: KindIdentity})
	require.NoError(t, err)
	assert.Equal(t, probs, model.Transform(probs))
}

func TestPlattRecoversCalibration(t *testing.T) {
	// Outcomes drawn from the raw probabilities themselves: a fitted Platt
	// model should stay close to the diagonal
	rng := rand.New(rand.NewSource(11))
	probs := make([]float64, 500)
	outcomes := make([]bool, 500)
	for i := range probs {
		probs[i] = 0.05 + 0.9*rng.Float64()
		outcomes[i] = rng.Float64() < probs[i]
	}

	model, err := Fit(probs, outcomes, Method{Kind: KindPlatt})
	require.NoError(t, err)

	calibrated := model.Transform([]float64{0.2, 0.5, 0.8})
	assert.InDelta(t, 0.2, calibrated[0], 0.12)
	assert.InDelta(t, 0.5, calibrated[1], 0.12)
	assert.InDelta(t, 0.8, calibrated[2], 0.12)

	// Monotone in the raw probability
	assert.Less(t, calibrated[0], calibrated[1])
	assert.Less(t, calibrated[1], calibrated[2])
}

func TestApplierTrainSplitUsesOutOfFoldForTrainRows(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	probs := make([]float64, 100)
	outcomes := make([]bool, 100)
	for i := range probs {
		probs[i] = rng.Float64()
		outcomes[i] = rng.Float64() < probs[i]
	}

	applier, err := NewApplier(Method{Kind: KindIsotonicKFold, Folds: 4}, SplitTrain, 0.7, logrus.New())
	require.NoError(t, err)

	calibrated, model := applier.Apply(probs, outcomes)
	require.Len(t, calibrated, len(probs))
	assert.Equal(t, KindIsotonicKFold, model.Method().Kind)

	kfold, ok := model.(*KFoldModel)
	require.True(t, ok)

	// First 70 rows carry out-of-fold values, the remainder the final model
	oof := kfold.TrainCalibrated()
	assert.Equal(t, oof[:70], calibrated[:70])
	assert.Equal(t, kfold.Transform(probs[70:]), calibrated[70:])
}

func TestApplierEmptyInput(t *testing.T) {
	applier, err := NewApplier(Method{Kind: KindIsotonic}, SplitTrain, 0.7, logrus.New())
	require.NoError(t, err)

	calibrated, model := applier.Apply(nil, nil)
	assert.Empty(t, calibrated)
	assert.Equal(t, KindIdentity, model.Method().Kind)
}
