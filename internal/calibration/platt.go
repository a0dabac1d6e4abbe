package calibration

import (
	"math"
)

const (
	plattMaxIterations = 100
	plattTolerance     = 1e-9
	plattRidge         = 1e-6
)

// plattModel rescales probabilities with a 1-D logistic regression fitted on
// the logit of the raw probability.
type plattModel struct {
	slope     float64
	intercept float64
}

func (m *plattModel) Method() Method { return Method{Kind: KindPlatt} }

func (m *plattModel) Transform(probs []float64) []float64 {
	out := make([]float64, len(probs))
	for i, p := range probs {
		out[i] = sigmoid(m.slope*logit(p) + m.intercept)
	}
	return out
}

// fitPlatt fits slope and intercept by Newton-Raphson on the log-loss. A small
// ridge term keeps the Hessian invertible when the classes are separable.
func fitPlatt(probs []float64, outcomes []bool) *plattModel {
	features := make([]float64, len(probs))
	targets := make([]float64, len(probs))
	for i, p := range probs {
		features[i] = logit(p)
		if outcomes[i] {
			targets[i] = 1.0
		}
	}

	slope, intercept := 1.0, 0.0
	for iter := 0; iter < plattMaxIterations; iter++ {
		gradSlope, gradIntercept := 0.0, 0.0
		hSS, hSI, hII := plattRidge, 0.0, plattRidge
		for i, z := range features {
			predicted := sigmoid(slope*z + intercept)
			residual := predicted - targets[i]
			weight := predicted * (1.0 - predicted)
			gradSlope += residual * z
			gradIntercept += residual
			hSS += weight * z * z
			hSI += weight * z
			hII += weight
		}

		det := hSS*hII - hSI*hSI
		if det == 0 {
			break
		}
		stepSlope := (hII*gradSlope - hSI*gradIntercept) / det
		stepIntercept := (hSS*gradIntercept - hSI*gradSlope) / det
		slope -= stepSlope
		intercept -= stepIntercept

		if math.Abs(stepSlope) < plattTolerance && math.Abs(stepIntercept) < plattTolerance {
			break
		}
	}

	return &plattModel{slope: slope, intercept: intercept}
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

func logit(p float64) float64 {
	clipped := clipProbability(p)
	return math.Log(clipped / (1.0 - clipped))
}
