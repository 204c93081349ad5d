package prediction

import (
	"math"
)

// MovingAverage returns the trailing moving average for each position where a
// full window is available. The result has len(values)-window+1 entries.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 0 || len(values) < window {
		return []float64{}
	}
	out := make([]float64, 0, len(values)-window+1)
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out = append(out, sum/float64(window))
		}
	}
	return out
}

// Trend is a least-squares line through a series indexed 0..n-1
type Trend struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R2        float64 `json:"r2"`
}

// At returns the fitted value at index x
func (t Trend) At(x float64) float64 {
	return t.Intercept + t.Slope*x
}

// LinearTrend fits y = intercept + slope*x over the series
func LinearTrend(values []float64) Trend {
	n := float64(len(values))
	switch len(values) {
	case 0:
		return Trend{}
	case 1:
		return Trend{Intercept: values[0], R2: 1}
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	mean := sumY / n
	var ssTot, ssRes float64
	for i, y := range values {
		fit := intercept + slope*float64(i)
		ssRes += (y - fit) * (y - fit)
		ssTot += (y - mean) * (y - mean)
	}
	r2 := 1.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}
	return Trend{Slope: slope, Intercept: intercept, R2: r2}
}

// ProjectLinear extends the fitted trend for the given number of periods.
// Negative projections are floored at zero.
func ProjectLinear(values []float64, periods int) []float64 {
	if periods <= 0 || len(values) == 0 {
		return []float64{}
	}
	t := LinearTrend(values)
	out := make([]float64, periods)
	for i := range out {
		out[i] = math.Max(0, t.At(float64(len(values)+i)))
	}
	return out
}

// GrowthRate returns the mean period-over-period growth, skipping periods
// whose base is zero. The result is a fraction (0.1 = 10%).
func GrowthRate(values []float64) float64 {
	var total float64
	var n int
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			continue
		}
		total += (values[i] - values[i-1]) / values[i-1]
		n++
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// Confidence maps the fit quality and sample size into 0..1
func Confidence(values []float64) float64 {
	if len(values) < 2 {
		return 0.1
	}
	r2 := LinearTrend(values).R2
	sample := math.Min(1, float64(len(values))/12)
	c := 0.2 + 0.5*math.Max(0, r2)*sample + 0.3*sample
	return math.Round(math.Min(c, 0.95)*100) / 100
}
