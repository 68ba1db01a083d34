// Package seed produces seeds for reproducible rolls.
//
// New draws a fresh seed from crypto/rand. Derive maps a caller-chosen key
// (a session name, a message ID) to a seed with HKDF-SHA256 so the same
// (salt, key) pair always replays the same dice, while the salt keeps
// outcomes unpredictable to anyone who does not hold it.
package seed

import (
	crand "crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

var info = []byte("rollbot dice seed v1")

// New generates a random seed using crypto/rand.
func New() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// Derive expands (salt, key) into a 64-bit seed. Keys are trimmed so
// "session-1" and " session-1 " replay the same rolls.
func Derive(salt, key string) uint64 {
	r := hkdf.New(sha256.New, []byte(strings.TrimSpace(key)), []byte(salt), info)
	var b [8]byte
	// 8 bytes is far below HKDF's output limit; ReadFull cannot fail.
	_, _ = io.ReadFull(r, b[:])
	return binary.BigEndian.Uint64(b[:])
}
