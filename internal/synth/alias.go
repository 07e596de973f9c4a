package synth

import (
	"fmt"
	"math/rand"
)

// aliasSampler draws from a discrete distribution in O(1) per draw after an
// O(n) setup over the support, using Walker's alias method.
type aliasSampler struct {
	prob  []float64
	alias []int
}

// newAliasSampler builds the alias tables for the given (possibly
// unnormalized) weights.
func newAliasSampler(weights []float64) (*aliasSampler, error) {
	n := len(weights)
	if n == 0 {
		return nil, fmt.Errorf("empty weight vector")
	}

	var total float64
	for _, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("negative weight %v", w)
		}
		total += w
	}
	if total <= 0 {
		return nil, fmt.Errorf("weights sum to zero")
	}

	scaled := make([]float64, n)
	for i, w := range weights {
		scaled[i] = w / total * float64(n)
	}

	s := &aliasSampler{
		prob:  make([]float64, n),
		alias: make([]int, n),
	}

	small := make([]int, 0, n)
	large := make([]int, 0, n)
	for i, p := range scaled {
		if p < 1 {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}

	for len(small) > 0 && len(large) > 0 {
		s1 := small[len(small)-1]
		small = small[:len(small)-1]
		l1 := large[len(large)-1]
		large = large[:len(large)-1]

		s.prob[s1] = scaled[s1]
		s.alias[s1] = l1
		scaled[l1] = scaled[l1] + scaled[s1] - 1
		if scaled[l1] < 1 {
			small = append(small, l1)
		} else {
			large = append(large, l1)
		}
	}
	// Remaining cells hit exactly 1 up to float error.
	for _, i := range large {
		s.prob[i] = 1
	}
	for _, i := range small {
		s.prob[i] = 1
	}

	return s, nil
}

// Draw samples one index from the distribution.
func (s *aliasSampler) Draw(rng *rand.Rand) int {
	i := rng.Intn(len(s.prob))
	if rng.Float64() < s.prob[i] {
		return i
	}
	return s.alias[i]
}
