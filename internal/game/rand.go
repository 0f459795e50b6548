package game

import (
	"crypto/rand"
	mathrand "math/rand/v2"
	"strings"
)

// Rand is the subset of *math/rand/v2.Rand the game needs. Tests pass a
// seeded source; the server uses GlobalRand.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int {
	return mathrand.IntN(n)
}

// GlobalRand is safe for concurrent use.
var GlobalRand Rand = globalRand{}

func Shuffle(rng Rand, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		swap(i, j)
	}
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewRoomCode returns a short code from an alphabet without look-alike
// characters.
func NewRoomCode(length int) string {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		for i := range buf {
			buf[i] = codeAlphabet[mathrand.IntN(len(codeAlphabet))]
		}
		return string(buf)
	}
	for i := range buf {
		buf[i] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
	}
	return string(buf)
}

// IsRoomCode reports whether code only uses the room code alphabet.
func IsRoomCode(code string) bool {
	if code == "" {
		return false
	}
	for _, r := range code {
		if !strings.ContainsRune(codeAlphabet, r) {
			return false
		}
	}
	return true
}
