package prediction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovingAverage(t *testing.T) {
	assert.Equal(t, []float64{2, 3, 4}, MovingAverage([]float64{1, 2, 3, 4, 5}, 3))
	assert.Empty(t, MovingAverage([]float64{1, 2}, 3))
	assert.Empty(t, MovingAverage([]float64{1, 2}, 0))
}

func TestLinearTrend(t *testing.T) {
	tr := LinearTrend([]float64{10, 20, 30, 40})
	assert.InDelta(t, 10, tr.Slope, 1e-9)
	assert.InDelta(t, 10, tr.Intercept, 1e-9)
	assert.InDelta(t, 1, tr.R2, 1e-9)

	flat := LinearTrend([]float64{5, 5, 5})
	assert.InDelta(t, 0, flat.Slope, 1e-9)
	assert.Equal(t, 1.0, flat.R2)

	assert.Equal(t, Trend{Intercept: 7, R2: 1}, LinearTrend([]float64{7}))
	assert.Equal(t, Trend{}, LinearTrend(nil))
}

func TestProjectLinear(t *testing.T) {
	assert.InDeltaSlice(t, []float64{50, 60}, ProjectLinear([]float64{10, 20, 30, 40}, 2), 1e-9)
	// a falling trend never projects below zero
	assert.InDeltaSlice(t, []float64{0, 0}, ProjectLinear([]float64{30, 20, 10}, 2), 1e-9)
	assert.Empty(t, ProjectLinear([]float64{1}, 0))
}

func TestGrowthRate(t *testing.T) {
	assert.InDelta(t, 0.1, GrowthRate([]float64{100, 110, 121}), 1e-9)
	assert.Equal(t, 0.0, GrowthRate([]float64{0, 0}))
	assert.Equal(t, 0.0, GrowthRate([]float64{5}))
}

func TestConfidence(t *testing.T) {
	assert.Equal(t, 0.1, Confidence([]float64{1}))
	c := Confidence([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12})
	assert.Equal(t, 0.95, c)
	noisy := Confidence([]float64{5, 1, 9, 2})
	assert.Less(t, noisy, c)
}
