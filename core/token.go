package core

import (
	"fmt"

	"github.com/google/uuid"
)

// CancelToken names one live child instance so that every effect registered
// under it can be cancelled together. Two tokens are equal iff their
// instance ids are equal; DebugName is diagnostic only and never
// participates in comparison.
type CancelToken struct {
	instance  uuid.UUID
	DebugName string
}

// NewCancelToken mints a token with a fresh instance id. Tokens minted for
// successive presentations of the same slot are always distinct, so a
// cancellation aimed at a torn-down instance can never name a later one.
func NewCancelToken(debugName string) CancelToken {
	return CancelToken{instance: uuid.New(), DebugName: debugName}
}

// Equal reports whether both tokens name the same instance.
func (t CancelToken) Equal(o CancelToken) bool {
	return t.instance == o.instance
}

// IsZero reports whether the token was never minted.
func (t CancelToken) IsZero() bool {
	return t.instance == uuid.Nil
}

func (t CancelToken) String() string {
	return fmt.Sprintf("%s/%s", t.DebugName, t.instance.String()[:8])
}

// key is the identity-only map key form of the token.
func (t CancelToken) key() uuid.UUID {
	return t.instance
}
