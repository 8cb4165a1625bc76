package cryptox

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Hasher is a bcrypt credential hasher with a fixed cost. It is an immutable
// value safe for concurrent use; construct one at startup and inject it into
// whatever needs to hash or verify credentials.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given exponential cost factor, e.g.
// 12 -> 2^12 rounds. Costs outside bcrypt's supported range are clamped so a
// misconfigured cost can never silently weaken below the library minimum.
func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return Hasher{cost: cost}
}

// Cost reports the configured cost factor.
func (h Hasher) Cost() int { return h.cost }

// Hash returns a salted bcrypt hash of secret. The salt comes from the
// platform CSPRNG, so hashing the same secret twice yields different outputs.
func (h Hasher) Hash(secret []byte) ([]byte, error) {
	if len(secret) == 0 {
		return nil, errors.New("cryptox: empty secret")
	}
	return bcrypt.GenerateFromPassword(secret, h.cost)
}

// Verify reports whether secret matches hash. The comparison is constant
// time with respect to the hash contents.
func (h Hasher) Verify(secret, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, secret) == nil
}
