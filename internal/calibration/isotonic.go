package calibration

import (
	"sort"
)

// breakpoint is one knot of the fitted isotonic function
type breakpoint struct {
	x float64
	y float64
}

// isotonicModel maps raw probabilities through a monotone non-decreasing fit
type isotonicModel struct {
	points []breakpoint
}

func (m *isotonicModel) Method() Method { return Method{Kind: KindIsotonic} }

func (m *isotonicModel) Transform(probs []float64) []float64 {
	out := make([]float64, len(probs))
	for i, p := range probs {
		out[i] = m.predict(p)
	}
	return out
}

// predict interpolates linearly between knots and holds constant outside the
// fitted range, so rank order of inputs is preserved.
func (m *isotonicModel) predict(p float64) float64 {
	n := len(m.points)
	if n == 0 {
		return clipProbability(p)
	}
	if p <= m.points[0].x {
		return m.points[0].y
	}
	if p >= m.points[n-1].x {
		return m.points[n-1].y
	}
	idx := sort.Search(n, func(i int) bool { return m.points[i].x >= p })
	lo, hi := m.points[idx-1], m.points[idx]
	if hi.x == lo.x {
		return hi.y
	}
	t := (p - lo.x) / (hi.x - lo.x)
	return lo.y + t*(hi.y-lo.y)
}

// isotonicBlock is a pooled run of training points sharing one fitted value
type isotonicBlock struct {
	xMin   float64
	xMax   float64
	sum    float64
	weight float64
}

func (b isotonicBlock) mean() float64 { return b.sum / b.weight }

// fitIsotonic runs pool-adjacent-violators regression of outcomes on raw
// probabilities. Duplicate raw values are pooled before PAVA so the fitted
// function is well defined at every knot. All-same-class training data
// collapses to a constant clipped away from 0 and 1 rather than erroring.
func fitIsotonic(probs []float64, outcomes []bool) *isotonicModel {
	type pair struct {
		x float64
		y float64
	}
	pairs := make([]pair, len(probs))
	for i, p := range probs {
		y := 0.0
		if outcomes[i] {
			y = 1.0
		}
		pairs[i] = pair{x: p, y: y}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].x < pairs[j].x })

	// Pool exact ties on x into weighted points
	blocks := make([]isotonicBlock, 0, len(pairs))
	for _, p := range pairs {
		if n := len(blocks); n > 0 && blocks[n-1].xMax == p.x {
			blocks[n-1].sum += p.y
			blocks[n-1].weight++
			continue
		}
		blocks = append(blocks, isotonicBlock{xMin: p.x, xMax: p.x, sum: p.y, weight: 1})
	}

	// PAVA: merge adjacent blocks while monotonicity is violated
	merged := make([]isotonicBlock, 0, len(blocks))
	for _, b := range blocks {
		merged = append(merged, b)
		for len(merged) > 1 {
			last := merged[len(merged)-1]
			prev := merged[len(merged)-2]
			if prev.mean() <= last.mean() {
				break
			}
			merged = merged[:len(merged)-1]
			merged[len(merged)-1] = isotonicBlock{
				xMin:   prev.xMin,
				xMax:   last.xMax,
				sum:    prev.sum + last.sum,
				weight: prev.weight + last.weight,
			}
		}
	}

	// Each block contributes knots at both ends of its x range so the fitted
	// value is constant across the pooled run and interpolates between runs.
	points := make([]breakpoint, 0, 2*len(merged))
	for _, b := range merged {
		value := clipProbability(b.mean())
		points = append(points, breakpoint{x: b.xMin, y: value})
		if b.xMax > b.xMin {
			points = append(points, breakpoint{x: b.xMax, y: value})
		}
	}

	return &isotonicModel{points: points}
}
