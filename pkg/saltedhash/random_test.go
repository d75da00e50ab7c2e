// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SimplePassword Contributors

package saltedhash

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonZeroBytes(t *testing.T) {
	for _, n := range []int{1, 16, 512, 4096} {
		b, err := NonZeroBytes(n)
		require.NoError(t, err)
		assert.Len(t, b, n)
		assert.Equal(t, -1, bytes.IndexByte(b, 0))
	}
}

func TestNonZeroReader(t *testing.T) {
	t.Run("redraws zero bytes", func(t *testing.T) {
		random := NonZeroReader(bytes.NewReader([]byte{0, 1, 0, 2, 3}))
		b, err := random(3)
		require.NoError(t, err)
		assert.Equal(t, []byte{2, 1, 3}, b)
	})

	t.Run("short reader fails", func(t *testing.T) {
		random := NonZeroReader(bytes.NewReader([]byte{1, 2}))
		_, err := random(3)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("exhausted while redrawing", func(t *testing.T) {
		random := NonZeroReader(bytes.NewReader([]byte{1, 0, 2}))
		_, err := random(3)
		assert.ErrorIs(t, err, io.EOF)
	})
}
