package directory

import (
	"errors"

	"go.uber.org/zap"

	"github.com/orrn/printbridge/internal/core"
)

// Chain consults several directories in order. The first directory that
// knows a name wins, both for lookups and for the merged listing.
type Chain struct {
	dirs   []core.Directory
	logger *zap.Logger
}

func NewChain(logger *zap.Logger, dirs ...core.Directory) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{dirs: dirs, logger: logger}
}

// Find returns a lookup error only when no member knows the name and at
// least one member failed.
func (c *Chain) Find(name string) (*core.PrinterRecord, bool, error) {
	var errs []error
	for _, d := range c.dirs {
		p, ok, err := d.Find(name)
		if err != nil {
			c.logger.Warn("printer directory lookup failed",
				zap.String("printer", name),
				zap.Error(err))
			errs = append(errs, err)
			continue
		}
		if ok {
			return p, true, nil
		}
	}
	return nil, false, errors.Join(errs...)
}

func (c *Chain) List() ([]core.PrinterRecord, error) {
	var (
		out    []core.PrinterRecord
		errs   []error
		failed int
	)
	seen := make(map[string]bool)
	for _, d := range c.dirs {
		records, err := d.List()
		if err != nil {
			c.logger.Warn("printer directory listing failed", zap.Error(err))
			errs = append(errs, err)
			failed++
			continue
		}
		for _, r := range records {
			if seen[r.Name] {
				continue
			}
			seen[r.Name] = true
			out = append(out, r)
		}
	}
	if len(c.dirs) > 0 && failed == len(c.dirs) {
		return nil, errors.Join(errs...)
	}
	if out == nil {
		out = []core.PrinterRecord{}
	}
	return out, nil
}

var _ core.Directory = (*Chain)(nil)
