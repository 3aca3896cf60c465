package shortener

import "github.com/jaevor/go-nanoid"

// Alphabet is the base62 alphabet short codes are drawn from.
const Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DefaultCodeLength gives 62^7 (~3.5e12) possible codes, keeping the
// birthday-bound collision probability negligible for billions of
// mappings.
const DefaultCodeLength = 7

// CodeGenerator produces candidate short codes. Implementations must
// draw from a cryptographically strong randomness source so codes are
// not enumerable.
type CodeGenerator func() Code

// NewCodeGenerator returns a generator producing base62 codes of the
// given length, backed by crypto/rand.
func NewCodeGenerator(length int) (CodeGenerator, error) {
	gen, err := nanoid.CustomASCII(Alphabet, length)
	if err != nil {
		return nil, err
	}

	return func() Code {
		return Code(gen())
	}, nil
}
