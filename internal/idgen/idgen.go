// Package idgen generates collision-resistant entity identifiers.
// IDs are content-hashed (title + parent + creation time + random
// nonce) and carry a short per-kind prefix, so a path id is
// recognizable at a glance and safe to paste into shell commands.
package idgen

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"time"
)

// DefaultLength is the number of hash characters after the prefix.
const DefaultLength = 8

// Prefixes per entity kind.
const (
	PrefixPath       = "path"
	PrefixPhase      = "ph"
	PrefixStep       = "st"
	PrefixItem       = "ai"
	PrefixIssue      = "iss"
	PrefixRootCause  = "rc"
	PrefixInitiative = "init"
)

// New returns a fresh id of the form prefix-xxxxxxxx. The hash covers
// the seed text, the timestamp and a random nonce, so two entities
// created in the same instant with the same title still get distinct
// ids.
func New(prefix, seed string, ts time.Time) string {
	var nonce [8]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		// Fall back to the clock; worse distribution, still unique
		// enough combined with the seed hash.
		binary.LittleEndian.PutUint64(nonce[:], uint64(time.Now().UnixNano()))
	}
	h := sha256.New()
	h.Write([]byte(seed))
	h.Write([]byte(ts.UTC().Format(time.RFC3339Nano)))
	h.Write(nonce[:])
	sum := h.Sum(nil)
	return fmt.Sprintf("%s-%x", prefix, sum[:DefaultLength/2])
}
