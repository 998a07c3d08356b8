// Package directory provides the printer lookups the manager resolves names
// against: fixed configuration, the SQLite registry, and the operating
// system's own printer list.
package directory

import (
	"github.com/orrn/printbridge/internal/core"
)

// Static serves the printers declared in the configuration file.
type Static struct {
	records []core.PrinterRecord
	byName  map[string]int
}

func NewStatic(records []core.PrinterRecord) *Static {
	s := &Static{
		records: make([]core.PrinterRecord, len(records)),
		byName:  make(map[string]int, len(records)),
	}
	copy(s.records, records)
	for i, r := range s.records {
		if _, dup := s.byName[r.Name]; !dup {
			s.byName[r.Name] = i
		}
	}
	return s
}

func (s *Static) Find(name string) (*core.PrinterRecord, bool, error) {
	i, ok := s.byName[name]
	if !ok {
		return nil, false, nil
	}
	r := s.records[i]
	return &r, true, nil
}

func (s *Static) List() ([]core.PrinterRecord, error) {
	out := make([]core.PrinterRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

var _ core.Directory = (*Static)(nil)
