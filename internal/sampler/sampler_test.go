package sampler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightBounds(t *testing.T) {
	histories := [][]bool{
		{true},
		{false},
		{true, true, true, true, true, true, true, true},
		{false, false, false, false},
		{true, false, true, false},
	}
	for _, h := range histories {
		w := Weight(h)
		assert.Greater(t, w, 0.0, "%v", h)
		assert.LessOrEqual(t, w, 1.0, "%v", h)
	}
	assert.Equal(t, 1.0, Weight([]bool{false, false}))
}

func TestWeightDecreasesWithCorrectStreak(t *testing.T) {
	results := []bool{false, false}
	prev := Weight(results)
	for i := 0; i < 20; i++ {
		results = append(results, true)
		w := Weight(results)
		assert.LessOrEqual(t, w, prev, "after %d trues", i+1)
		prev = w
	}
	assert.True(t, IsMastered(prev))
}

func TestWeightIncreasesWithMiss(t *testing.T) {
	results := []bool{true, true, true}
	before := Weight(results)
	after := Weight(append(results, false))
	assert.GreaterOrEqual(t, after, before)

	worse := Weight([]bool{true, true, true, false, false})
	assert.GreaterOrEqual(t, worse, after)
	assert.False(t, IsMastered(worse))
}

func TestWeightFavoursRecentAnswers(t *testing.T) {
	oldMiss := Weight([]bool{false, true, true})
	recentMiss := Weight([]bool{true, true, false})
	assert.Less(t, oldMiss, recentMiss)
}

func TestIsMasteredThreshold(t *testing.T) {
	assert.True(t, IsMastered(0.6))
	assert.False(t, IsMastered(math.Nextafter(0.6, 1)))
}

func TestWeightedSampleKeySkipsZeroWeights(t *testing.T) {
	s := New(1)
	for i := 0; i < 200; i++ {
		assert.Equal(t, "b", s.WeightedSampleKey(map[string]float64{"a": 0, "b": 1}))
	}
}

func TestWeightedSampleKeySingleEntry(t *testing.T) {
	s := New(2)
	for _, w := range []float64{0.01, 0.5, 1} {
		assert.Equal(t, "a", s.WeightedSampleKey(map[string]float64{"a": w}))
	}
}

func TestWeightedSampleKeyFavoursHeavierKeys(t *testing.T) {
	s := New(3)
	counts := map[string]int{}
	for i := 0; i < 5000; i++ {
		counts[s.WeightedSampleKey(map[string]float64{"weak": 0.9, "strong": 0.1})]++
	}
	assert.Greater(t, counts["weak"], counts["strong"]*4)
}

func TestWeightedSampleKeyAllZeroIsUniform(t *testing.T) {
	s := New(4)
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[s.WeightedSampleKey(map[string]float64{"a": 0, "b": 0})] = true
	}
	assert.Len(t, seen, 2)
}

func TestWeightedSampleKeyPanicsOnEmptyMap(t *testing.T) {
	assert.Panics(t, func() {
		New(5).WeightedSampleKey(map[string]float64{})
	})
}
