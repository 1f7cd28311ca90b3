package shortcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Generate(t *testing.T) {
	t.Run("fixed length", func(t *testing.T) {
		gen := NewGenerator(8)

		code, err := gen.Generate()

		require.NoError(t, err)
		assert.Len(t, code, 8)
	})

	t.Run("hex alphabet", func(t *testing.T) {
		gen := NewGenerator(32)

		code, err := gen.Generate()

		require.NoError(t, err)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(alphabet, r), "unexpected rune %q in code %q", r, code)
		}
	})

	t.Run("non-positive length falls back to default", func(t *testing.T) {
		gen := NewGenerator(0)

		code, err := gen.Generate()

		require.NoError(t, err)
		assert.Len(t, code, DefaultLength)
	})

	t.Run("codes vary", func(t *testing.T) {
		gen := NewGenerator(16)
		seen := make(map[string]struct{})

		for i := 0; i < 100; i++ {
			code, err := gen.Generate()
			require.NoError(t, err)

			_, dup := seen[code]
			assert.False(t, dup, "duplicate code %q", code)
			seen[code] = struct{}{}
		}
	})
}
