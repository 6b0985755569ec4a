// Package archive stores raw markup snapshots of accepted pages, keyed by
// a stable digest of the canonical URL.
package archive

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Archiver persists one markup snapshot per accepted page.
type Archiver interface {
	Archive(ctx context.Context, canonicalURL string, markup []byte) error
}

// ObjectPath derives the storage key for a canonical URL. The digest keeps
// keys filesystem- and bucket-safe regardless of URL length or characters.
func ObjectPath(canonicalURL string) string {
	sum := sha256.Sum256([]byte(canonicalURL))
	digest := hex.EncodeToString(sum[:])
	return fmt.Sprintf("pages/%s/%s.html", digest[:2], digest)
}

// Noop discards all snapshots.
type Noop struct{}

// Archive implements Archiver.
func (Noop) Archive(context.Context, string, []byte) error { return nil }
