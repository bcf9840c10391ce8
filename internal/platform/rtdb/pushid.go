package rtdb

import (
	"math/rand"
	"sync"
	"time"
)

// Push keys sort lexicographically in generation order: 8 characters of
// millisecond timestamp followed by 12 random characters, all from a 64-char
// alphabet ordered by ASCII. Keys minted in the same millisecond reuse the
// previous random suffix incremented by one.
const pushChars = "-0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz"

type pushIDGen struct {
	mu       sync.Mutex
	lastMS   int64
	lastRand [12]int
	now      func() time.Time // mockable
	rnd      *rand.Rand
}

func newPushIDGen() *pushIDGen {
	return &pushIDGen{
		now: time.Now,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (g *pushIDGen) next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms == g.lastMS {
		// bump the suffix so same-millisecond keys still order correctly
		for i := 11; i >= 0; i-- {
			if g.lastRand[i] < 63 {
				g.lastRand[i]++
				break
			}
			g.lastRand[i] = 0
		}
	} else {
		for i := range g.lastRand {
			g.lastRand[i] = g.rnd.Intn(64)
		}
	}
	g.lastMS = ms

	var id [20]byte
	for i := 7; i >= 0; i-- {
		id[i] = pushChars[ms%64]
		ms /= 64
	}
	for i, r := range g.lastRand {
		id[8+i] = pushChars[r]
	}
	return string(id[:])
}
