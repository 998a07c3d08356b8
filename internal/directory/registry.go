package directory

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/orrn/printbridge/internal/core"
	"github.com/orrn/printbridge/internal/db"
)

var ErrNotRegistered = errors.New("printer is not registered")

// Registry serves printers registered at runtime and persisted in SQLite.
type Registry struct {
	ops     *db.PrinterOperations
	timeout time.Duration
}

func NewRegistry(ops *db.PrinterOperations) *Registry {
	return &Registry{ops: ops, timeout: 5 * time.Second}
}

func (r *Registry) Find(name string) (*core.PrinterRecord, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	p, err := r.ops.GetPrinter(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

func (r *Registry) List() ([]core.PrinterRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	return r.ops.ListPrinters(ctx)
}

// Register adds or replaces a record.
func (r *Registry) Register(ctx context.Context, p core.PrinterRecord) error {
	if p.Name == "" {
		return core.NewInvalidInput("register", core.ErrEmptyTarget)
	}
	return r.ops.UpsertPrinter(ctx, &p)
}

func (r *Registry) Remove(ctx context.Context, name string) error {
	err := r.ops.DeletePrinter(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotRegistered
	}
	return err
}

var _ core.Directory = (*Registry)(nil)
