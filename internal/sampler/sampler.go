// Package sampler weights answer histories and draws shortcuts by weight.
package sampler

import (
	"math/rand"
	"sort"
	"time"
)

// MasteryThreshold is the highest weight still classified as mastered.
const MasteryThreshold = 0.6

// decay is the factor applied to an answer for every newer answer after it.
const decay = 0.75

// Sampler draws keys from weight maps.
type Sampler struct {
	rnd *rand.Rand
}

// New returns a Sampler seeded with seed, or with the current time when seed is 0.
func New(seed int64) *Sampler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Sampler{rnd: rand.New(rand.NewSource(seed))}
}

// Weight converts results (oldest first) into a recency-weighted error rate.
// The newest answer counts fully and each older one is discounted by decay.
// A virtual miss older than every real answer keeps the weight above zero so
// mastered items are still drawn occasionally. The result is in (0, 1].
func Weight(results []bool) float64 {
	var misses, total float64
	factor := 1.0
	for i := len(results) - 1; i >= 0; i-- {
		if !results[i] {
			misses += factor
		}
		total += factor
		factor *= decay
	}
	misses += factor
	total += factor
	return misses / total
}

// IsMastered reports whether weight is at or below MasteryThreshold.
func IsMastered(weight float64) bool {
	return weight <= MasteryThreshold
}

// WeightedSampleKey draws one key with probability proportional to its
// weight. Keys with a zero weight are never drawn unless every weight is
// zero, in which case the draw is uniform. It panics on an empty map.
func (s *Sampler) WeightedSampleKey(weights map[string]float64) string {
	if len(weights) == 0 {
		panic("sampler: weighted sample of an empty map")
	}
	keys := make([]string, 0, len(weights))
	total := 0.0
	for key, w := range weights {
		keys = append(keys, key)
		if w > 0 {
			total += w
		}
	}
	sort.Strings(keys)
	if total <= 0 {
		return keys[s.rnd.Intn(len(keys))]
	}

	r := s.rnd.Float64() * total
	acc := 0.0
	last := ""
	for _, key := range keys {
		w := weights[key]
		if w <= 0 {
			continue
		}
		acc += w
		last = key
		if r < acc {
			return key
		}
	}
	return last
}
