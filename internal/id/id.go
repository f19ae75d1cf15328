// Package id generates prefixed NanoIDs for records the server creates itself.
// User IDs are external and never generated here.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for generated IDs.
const (
	PrefixAchievement = "ach"
	PrefixSSEClient   = "sse"
)

// Generate creates an ID of the form prefix-nanoid (e.g. "ach-V1StGXR8_Z5jdHi6B-myT").
// It fails only when the system cannot supply secure random bytes.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
