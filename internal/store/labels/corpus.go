// Package labels persists manually labeled pages to a CSV file that the
// classifier training pipeline consumes.
package labels

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pybash1/provoke/internal/store"
)

var header = []string{"url", "title", "label", "labeled_at"}

// Corpus appends labeled rows to a single CSV file. Writes are serialized so
// concurrent deletions from the admin API cannot interleave rows.
type Corpus struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewCorpus creates the parent directory if needed and returns a Corpus
// writing to path.
func NewCorpus(path string) (*Corpus, error) {
	if path == "" {
		return nil, fmt.Errorf("labels path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create labels dir: %w", err)
	}
	return &Corpus{path: path, now: time.Now}, nil
}

// AppendLabel records one labeled page. The header row is written when the
// file is created.
func (c *Corpus) AppendLabel(_ context.Context, page store.Page, label string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, statErr := os.Stat(c.path)
	writeHeader := statErr != nil || info.Size() == 0

	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open labels file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("write labels header: %w", err)
		}
	}
	row := []string{page.URL, page.Title, label, c.now().UTC().Format(time.RFC3339)}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write label row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush labels file: %w", err)
	}
	return nil
}
