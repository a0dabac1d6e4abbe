package calibration

import (
	"math"
)

// DefaultBins is the default number of equal-width reliability bins
const DefaultBins = 10

// ReliabilityBin is one row of the reliability table. Empty bins carry NaN
// means so downstream consumers can distinguish "no data" from "perfectly
// calibrated"; this NaN shape is load-bearing for comparisons.
type ReliabilityBin struct {
	Low           float64 `json:"low"`
	High          float64 `json:"high"`
	MeanPredicted float64 `json:"mean_predicted"`
	MeanObserved  float64 `json:"mean_observed"`
	Count         int     `json:"count"`
}

// BrierScore is the mean squared error between predicted probabilities and
// realized binary outcomes. NaN for empty input.
func BrierScore(outcomes []bool, probs []float64) float64 {
	if len(probs) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for i, p := range probs {
		y := 0.0
		if outcomes[i] {
			y = 1.0
		}
		diff := p - y
		sum += diff * diff
	}
	return sum / float64(len(probs))
}

// ReliabilityTable buckets predictions into nBins equal-width probability bins
// ordered low to high, reporting per-bin mean prediction, observed frequency,
// and count.
func ReliabilityTable(outcomes []bool, probs []float64, nBins int) []ReliabilityBin {
	if nBins <= 0 {
		nBins = DefaultBins
	}

	counts := make([]int, nBins)
	predSums := make([]float64, nBins)
	obsSums := make([]float64, nBins)
	for i, p := range probs {
		bin := binIndex(p, nBins)
		counts[bin]++
		predSums[bin] += p
		if outcomes[i] {
			obsSums[bin]++
		}
	}

	width := 1.0 / float64(nBins)
	table := make([]ReliabilityBin, nBins)
	for bin := 0; bin < nBins; bin++ {
		row := ReliabilityBin{
			Low:           float64(bin) * width,
			High:          float64(bin+1) * width,
			MeanPredicted: math.NaN(),
			MeanObserved:  math.NaN(),
			Count:         counts[bin],
		}
		if counts[bin] > 0 {
			row.MeanPredicted = predSums[bin] / float64(counts[bin])
			row.MeanObserved = obsSums[bin] / float64(counts[bin])
		}
		table[bin] = row
	}
	return table
}

// ExpectedCalibrationError is the count-weighted average gap between mean
// predicted and observed frequency across equal-width bins. Empty bins
// contribute 0 to the aggregate.
func ExpectedCalibrationError(outcomes []bool, probs []float64, nBins int) float64 {
	if len(probs) == 0 {
		return 0
	}
	total := float64(len(probs))
	ece := 0.0
	for _, bin := range ReliabilityTable(outcomes, probs, nBins) {
		if bin.Count == 0 {
			continue
		}
		gap := math.Abs(bin.MeanPredicted - bin.MeanObserved)
		ece += gap * float64(bin.Count) / total
	}
	return ece
}

// binIndex maps a probability to its equal-width bin; 1.0 lands in the top bin
func binIndex(p float64, nBins int) int {
	bin := int(p * float64(nBins))
	if bin < 0 {
		return 0
	}
	if bin >= nBins {
		return nBins - 1
	}
	return bin
}
