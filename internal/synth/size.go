package synth

import (
	"fmt"
	"math"
	"math/rand"
)

// Incident sizes follow a right-skewed Beta-Binomial(n, 1.5, 10.0)
// distribution over [0, n] shifted by the lower bound, so most incidents
// stay small while the tail still reaches the upper bound.
const (
	sizeAlpha = 1.5
	sizeBeta  = 10.0
)

// betaBinomialPMF computes P(X = k) for X ~ BetaBinomial(n, a, b) in closed
// form via log-gamma, avoiding overflow on large supports.
func betaBinomialPMF(k, n int, a, b float64) float64 {
	if k < 0 || k > n {
		return 0
	}
	lchoose := lgamma(float64(n+1)) - lgamma(float64(k+1)) - lgamma(float64(n-k+1))
	lnum := lbeta(float64(k)+a, float64(n-k)+b)
	lden := lbeta(a, b)
	return math.Exp(lchoose + lnum - lden)
}

func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}

func lbeta(a, b float64) float64 {
	return lgamma(a) + lgamma(b) - lgamma(a+b)
}

// sizeSampler draws incident sizes in [lbound, lbound+n].
type sizeSampler struct {
	lbound  int
	sampler *aliasSampler
}

// newSizeSampler precomputes the PMF over the whole support and builds the
// alias tables once, so each draw is O(1).
func newSizeSampler(lbound, ubound int) (*sizeSampler, error) {
	n := ubound - lbound
	if n <= 0 {
		return nil, fmt.Errorf("wrong bound arguments: %d, %d", lbound, ubound)
	}

	pmf := make([]float64, n+1)
	for k := 0; k <= n; k++ {
		pmf[k] = betaBinomialPMF(k, n, sizeAlpha, sizeBeta)
	}

	sampler, err := newAliasSampler(pmf)
	if err != nil {
		return nil, fmt.Errorf("build size sampler: %w", err)
	}
	return &sizeSampler{lbound: lbound, sampler: sampler}, nil
}

// Draw samples one incident size.
func (s *sizeSampler) Draw(rng *rand.Rand) int {
	return s.lbound + s.sampler.Draw(rng)
}
