package assistant

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Rand picks among canned responses and templates
type Rand interface {
	// IntN returns a value in [0, n)
	IntN(n int) int
}

// NewRand returns a seeded source. A zero seed seeds from the clock.
func NewRand(seed uint64) Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// lockedRand makes a *rand.Rand safe for the HTTP server's goroutines
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

func pick[T any](rnd Rand, items []T) T {
	return items[rnd.IntN(len(items))]
}
