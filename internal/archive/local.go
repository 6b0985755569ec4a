package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalArchiver writes snapshots under a directory on disk.
type LocalArchiver struct {
	root     string
	maxBytes int64
}

// NewLocal returns an archiver rooted at dir. maxBytes of zero disables
// the size cap.
func NewLocal(root string, maxBytes int64) (*LocalArchiver, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create archive dir %s: %w", root, err)
	}
	return &LocalArchiver{root: root, maxBytes: maxBytes}, nil
}

// Archive writes the markup snapshot to disk.
func (a *LocalArchiver) Archive(ctx context.Context, canonicalURL string, markup []byte) error {
	if len(markup) == 0 {
		return fmt.Errorf("empty markup for %s", canonicalURL)
	}
	if a.maxBytes > 0 && int64(len(markup)) > a.maxBytes {
		return fmt.Errorf("page size %d exceeds max %d", len(markup), a.maxBytes)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}
	target := filepath.Join(a.root, filepath.FromSlash(ObjectPath(canonicalURL)))
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return fmt.Errorf("creating archive dir for %s: %w", target, err)
	}
	if err := os.WriteFile(target, markup, 0o600); err != nil {
		return fmt.Errorf("writing snapshot to %s: %w", target, err)
	}
	return nil
}
