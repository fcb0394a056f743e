// Package random supplies the entropy behind the computer's pick.
package random

import (
	crand "crypto/rand"
	"math/rand/v2"
)

// Source returns a ChaCha8 stream keyed from the system entropy pool. Each
// call yields an independent stream.
func Source() rand.Source {
	var key [32]byte
	// crypto/rand.Read does not fail on supported platforms.
	_, _ = crand.Read(key[:])
	return rand.NewChaCha8(key)
}
