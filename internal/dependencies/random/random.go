package random

import (
	"crypto/rand"
	"math/big"
)

// Random provides random number generation that can be mocked for testing
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int

	// Pick2 returns two distinct indices chosen uniformly at random
	// without replacement from [0, n). n must be at least 2.
	Pick2(n int) (int, int)
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Intn returns a cryptographically random int in [0, n)
func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	max := big.NewInt(int64(n))
	result, err := rand.Int(rand.Reader, max)
	if err != nil {
		return 0
	}
	return int(result.Int64())
}

// Pick2 returns two distinct uniformly random indices in [0, n)
func (r *CryptoRandom) Pick2(n int) (int, int) {
	if n < 2 {
		return 0, 0
	}
	first := r.Intn(n)
	second := r.Intn(n - 1)
	if second >= first {
		second++
	}
	return first, second
}
