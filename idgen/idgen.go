// Package idgen generates identifiers for capture sessions.
//
// Session IDs are UUIDv7 strings: time-sortable, so the journal lists
// sessions in start order without an extra index.
package idgen

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator produces unique string identifiers.
type Generator func() string

// UUIDv7 returns a Generator that produces RFC 9562 UUID v7 strings.
func UUIDv7() Generator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}

// Prefixed wraps a Generator and prepends a fixed prefix to every ID.
func Prefixed(prefix string, gen Generator) Generator {
	return func() string {
		return prefix + gen()
	}
}

// Default is the generator used when none is configured.
var Default Generator = Prefixed("ses_", UUIDv7())

// New produces an ID using the Default generator.
func New() string {
	return Default()
}

// Parse validates a session ID produced by Default and returns its UUID part.
func Parse(id string) (string, error) {
	const prefix = "ses_"
	if len(id) > len(prefix) && id[:len(prefix)] == prefix {
		id = id[len(prefix):]
	}
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("idgen: invalid session id: %w", err)
	}
	return u.String(), nil
}
