package repository

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Dan9191/bank-analytics/internal/models"
	"github.com/Dan9191/bank-analytics/internal/operations"
)

// Repository provides the operations of the bank report workbook. The
// workbook is re-read only when its modification time changes.
type Repository struct {
	loader *operations.Loader
	path   string
	sheet  string

	mu      sync.Mutex
	loaded  bool
	modTime time.Time
	ops     []models.Operation
}

// NewRepository initializes a new repository
func NewRepository(loader *operations.Loader, path, sheet string) *Repository {
	return &Repository{loader: loader, path: path, sheet: sheet}
}

// Operations returns all rows of the workbook. The returned slice is shared
// and must not be modified.
func (r *Repository) Operations() ([]models.Operation, error) {
	info, err := os.Stat(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat operations file: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded && info.ModTime().Equal(r.modTime) {
		return r.ops, nil
	}

	ops, err := r.loader.Load(r.path, r.sheet)
	if err != nil {
		return nil, err
	}

	r.ops = ops
	r.loaded = true
	r.modTime = info.ModTime()
	return ops, nil
}
