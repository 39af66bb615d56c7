// Package core provides naming helpers and run identifiers shared by the
// generator packages.
package core

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// NewRunID returns "<yyyymmddhhmmss>-<rand4>" in UTC time.
// Example: "20260109013207-a3f2"
// The id names the staging directory of a run and is recorded in the ledger.
// Error only if crypto/rand read fails.
func NewRunID(now time.Time) (string, error) {
	b := make([]byte, 2)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return now.UTC().Format("20060102150405") + "-" + hex.EncodeToString(b), nil
}
