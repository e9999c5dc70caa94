package util

import (
	"github.com/google/uuid"
	"github.com/mr-tron/base58"
)

// NewUUID returns a random UUID in base58 form, compact enough for
// audit event ids and log lines.
func NewUUID() string {
	id := uuid.New()
	return base58.Encode(id[:])
}
