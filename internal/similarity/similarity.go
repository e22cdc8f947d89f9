// Package similarity scores how related two words are.
//
// The estimator is a placeholder for a real embedding model: it mixes shared
// prefix length, relative word length and a random jitter term. Randomness is
// injected so callers can seed it for reproducible output.
package similarity

import (
	"math/rand/v2"
	"sort"
	"unicode/utf8"
)

// Weights of the three score components. They sum to 1.
const (
	PrefixWeight = 0.4
	LengthWeight = 0.4
	JitterWeight = 0.2
)

// Matrix is a square similarity matrix indexed by word position.
type Matrix [][]float64

// Len returns the number of rows.
func (m Matrix) Len() int {
	return len(m)
}

// IsSymmetric reports whether m[i][j] and m[j][i] differ by at most tol
// for every pair.
func (m Matrix) IsSymmetric(tol float64) bool {
	for i := range m {
		for j := i + 1; j < len(m); j++ {
			d := m[i][j] - m[j][i]
			if d > tol || d < -tol {
				return false
			}
		}
	}
	return true
}

// Neighbor is one entry of a row lookup.
type Neighbor struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
}

// Neighbors returns the entries of row i with value >= threshold, excluding
// i itself, sorted by value (highest first). A limit <= 0 returns all of them.
func (m Matrix) Neighbors(i, limit int, threshold float64) []Neighbor {
	if i < 0 || i >= len(m) {
		return nil
	}

	results := make([]Neighbor, 0, len(m[i]))
	for j, v := range m[i] {
		if j == i || v < threshold {
			continue
		}
		results = append(results, Neighbor{Index: j, Value: v})
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Value > results[b].Value
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Estimator computes similarity matrices.
type Estimator struct {
	rng          *rand.Rand
	perPairDraws bool
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithRand sets the random source for the jitter term.
func WithRand(rng *rand.Rand) Option {
	return func(e *Estimator) {
		e.rng = rng
	}
}

// WithPerPairDraws makes Compute draw an independent jitter for (i, j) and
// (j, i). The resulting matrix is generally not symmetric. This matches the
// legacy mock behavior and is off by default.
func WithPerPairDraws(enabled bool) Option {
	return func(e *Estimator) {
		e.perPairDraws = enabled
	}
}

// NewEstimator creates an estimator. Without WithRand it uses a randomly
// seeded source, so repeated calls give different jitter.
func NewEstimator(opts ...Option) *Estimator {
	e := &Estimator{}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return e
}

// Compute returns the n×n similarity matrix for words. The diagonal is
// exactly 1 and every value lies in [0, 1]. An empty list yields an empty
// matrix.
//
// An Estimator is not safe for concurrent use because it owns its random
// source.
func (e *Estimator) Compute(words []string) Matrix {
	n := len(words)
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = 1.0
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			m[i][j] = Score(words[i], words[j], e.rng.Float64())
			if e.perPairDraws {
				m[j][i] = Score(words[j], words[i], e.rng.Float64())
			} else {
				m[j][i] = m[i][j]
			}
		}
	}
	return m
}

// Score combines prefix similarity, length similarity and a jitter value in
// [0, 1) into a score clamped to [0, 1].
func Score(a, b string, jitter float64) float64 {
	s := PrefixWeight*PrefixSimilarity(a, b) + LengthWeight*LengthSimilarity(a, b) + JitterWeight*jitter
	return clamp01(s)
}

// PrefixSimilarity is the length of the common leading run of runes divided
// by the length of the shorter word. It is 0 when either word is empty.
func PrefixSimilarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	minLen := min(len(ra), len(rb))
	if minLen == 0 {
		return 0
	}

	common := 0
	for common < minLen && ra[common] == rb[common] {
		common++
	}
	return float64(common) / float64(minLen)
}

// LengthSimilarity is 1 - |len(a)-len(b)| / max(len(a), len(b)), measured
// in runes. Two empty words are fully similar.
func LengthSimilarity(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := max(la, lb)
	if longest == 0 {
		return 1
	}
	diff := la - lb
	if diff < 0 {
		diff = -diff
	}
	return 1 - float64(diff)/float64(longest)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
