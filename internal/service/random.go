package service

import (
	"math/rand"
	"sync"
	"time"
)

// Randomizer is the random source used for task draws, role conversion and
// remote kill reassignment
type Randomizer interface {
	Intn(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRandomizer returns a goroutine-safe Randomizer. A zero seed uses the clock.
func NewRandomizer(seed int64) Randomizer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) Shuffle(n int, swap func(i, j int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.r.Shuffle(n, swap)
}
