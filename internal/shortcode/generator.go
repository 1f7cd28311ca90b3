// Package shortcode generates the random codes that short URLs are built
// from.
package shortcode

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// DefaultLength is the length of generated codes unless configured otherwise.
const DefaultLength = 8

// alphabet is lowercase hex, which keeps codes URL-safe.
const alphabet = "0123456789abcdef"

// Generator produces fixed-length random short codes from a cryptographically
// strong source. It makes no uniqueness guarantee; the service retries on
// collision.
type Generator struct {
	length int
}

// NewGenerator creates a Generator producing codes of the given length.
// A non-positive length falls back to DefaultLength.
func NewGenerator(length int) *Generator {
	if length < 1 {
		length = DefaultLength
	}

	return &Generator{length: length}
}

// Generate returns a new random code.
func (g *Generator) Generate() (string, error) {
	const op = "shortcode.Generator.Generate"

	code, err := gonanoid.Generate(alphabet, g.length)
	if err != nil {
		return "", fmt.Errorf("%s: failed to generate short code: %w", op, err)
	}

	return code, nil
}
