// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

package saltedhash

import (
	"crypto/rand"
	"io"
	"sync"
)

// RandomFunc returns n random bytes, none of which is zero.
type RandomFunc func(n int) ([]byte, error)

// NonZeroBytes reads n bytes from crypto/rand, redrawing zero bytes.
// crypto/rand is safe for concurrent use, so no locking is done here.
func NonZeroBytes(n int) ([]byte, error) {
	return readNonZero(rand.Reader, n)
}

// NonZeroReader returns a RandomFunc drawing from r. Reads are serialized
// because r is not assumed to be safe for concurrent use.
func NonZeroReader(r io.Reader) RandomFunc {
	var mu sync.Mutex
	return func(n int) ([]byte, error) {
		mu.Lock()
		defer mu.Unlock()
		return readNonZero(r, n)
	}
}

func readNonZero(r io.Reader, n int) ([]byte, error) {
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, err
	}

	var one [1]byte
	for i := range out {
		for out[i] == 0 {
			if _, err := io.ReadFull(r, one[:]); err != nil {
				return nil, err
			}
			out[i] = one[0]
		}
	}
	return out, nil
}
