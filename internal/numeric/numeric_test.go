package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLongestDurations(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		n    int
		want []float64
	}{
		{"remainder summed", []float64{5, 4, 3, 2}, 2, []float64{5, 4, 5}},
		{"unsorted input", []float64{2, 5, 3, 4}, 2, []float64{5, 4, 5}},
		{"exactly n", []float64{1, 3}, 2, []float64{3, 1, 0}},
		{"fewer than n", []float64{7}, 3, []float64{7, 0, 0, 0}},
		{"empty", nil, 2, []float64{0, 0, 0}},
		{"n zero", []float64{1, 2}, 0, []float64{3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LongestDurations(tt.in, tt.n)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, tt.n+1)
			assert.Equal(t, Sum(tt.in), Sum(got))
		})
	}
}

func TestLongestDurations_DoesNotModifyInput(t *testing.T) {
	in := []float64{1, 3, 2}
	LongestDurations(in, 1)
	assert.Equal(t, []float64{1, 3, 2}, in)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 3.0, Median([]float64{5, 1, 3}))
	assert.Equal(t, 2.5, Median([]float64{4, 1, 3, 2}))
	assert.True(t, math.IsNaN(Median(nil)))

	in := []float64{3, 1, 2}
	Median(in)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 2.3, Round(2.25, 1))
	assert.Equal(t, -2.3, Round(-2.25, 1))
	assert.Equal(t, 3.0, Round(2.96, 1))
	assert.True(t, math.IsNaN(Round(math.NaN(), 1)))
}
