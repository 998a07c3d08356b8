// Package ffi adapts the printer manager to the calling convention of the
// shared-library exports: nullable strings in, JSON or booleans out, and a
// retained diagnostic for the last failure.
package ffi

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/orrn/printbridge/internal/core"
)

var ErrNullArgument = errors.New("argument is null")

type Printers interface {
	GetPrinter(name string) (*core.PrinterRecord, error)
	ListPrinters() ([]core.PrinterRecord, error)
	Print(name string, data []byte, jobName string) (core.Result, error)
	PrintFile(name, path, jobName string) (core.Result, error)
	PrintPDF(name, path, jobName string) (core.Result, error)
}

type Bridge struct {
	printers Printers
	logger   *zap.Logger

	mu      sync.Mutex
	lastErr string
}

func New(printers Printers, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{printers: printers, logger: logger}
}

// LastError returns the diagnostic of the most recent failed call, or "" if
// the most recent call succeeded.
func (b *Bridge) LastError() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

func (b *Bridge) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		b.lastErr = ""
		return
	}
	b.lastErr = err.Error()
}

// guard converts a panic below the boundary into a recorded failure.
func (b *Bridge) guard(op string, failed func()) {
	if r := recover(); r != nil {
		b.logger.Error("recovered panic at library boundary",
			zap.String("op", op),
			zap.Any("panic", r),
			zap.Stack("stacktrace"))
		b.record(fmt.Errorf("%s: internal error: %v", op, r))
		failed()
	}
}

func required(op string, s *string) (string, error) {
	if s == nil {
		return "", core.NewInvalidInput(op, ErrNullArgument)
	}
	if !utf8.ValidString(*s) {
		return "", core.NewInvalidInput(op, core.ErrInvalidEncoding)
	}
	return *s, nil
}

// optional treats a missing job name as absent.
func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// PrinterByName returns the printer record as JSON, or nil when the printer
// does not exist or the lookup failed.
func (b *Bridge) PrinterByName(name *string) (out []byte) {
	defer b.guard("get_printer_by_name", func() { out = nil })

	n, err := required("lookup", name)
	if err != nil {
		b.record(err)
		return nil
	}
	p, err := b.printers.GetPrinter(n)
	if err != nil {
		b.record(err)
		return nil
	}
	out, err = json.Marshal(p)
	b.record(err)
	if err != nil {
		return nil
	}
	return out
}

// Printers returns every known printer as a JSON array. A failed listing
// yields nil.
func (b *Bridge) Printers() (out []byte) {
	defer b.guard("get_printers", func() { out = nil })

	list, err := b.printers.ListPrinters()
	if err != nil {
		b.record(err)
		return nil
	}
	if list == nil {
		list = []core.PrinterRecord{}
	}
	out, err = json.Marshal(list)
	b.record(err)
	if err != nil {
		return nil
	}
	return out
}

func (b *Bridge) Print(printer, text, jobName *string) (ok bool) {
	defer b.guard("print", func() { ok = false })

	name, err := required("printer", printer)
	if err != nil {
		b.record(err)
		return false
	}
	body, err := required("text", text)
	if err != nil {
		b.record(err)
		return false
	}
	res, err := b.printers.Print(name, []byte(body), optional(jobName))
	b.record(err)
	return err == nil && res.Printed
}

func (b *Bridge) PrintFile(printer, path, jobName *string) (ok bool) {
	defer b.guard("print_file", func() { ok = false })
	return b.printPath(printer, path, jobName, b.printers.PrintFile)
}

func (b *Bridge) PrintPDFFile(printer, path, jobName *string) (ok bool) {
	defer b.guard("print_pdf_file", func() { ok = false })
	return b.printPath(printer, path, jobName, b.printers.PrintPDF)
}

func (b *Bridge) printPath(printer, path, jobName *string, do func(name, path, jobName string) (core.Result, error)) bool {
	name, err := required("printer", printer)
	if err != nil {
		b.record(err)
		return false
	}
	p, err := required("path", path)
	if err != nil {
		b.record(err)
		return false
	}
	res, err := do(name, p, optional(jobName))
	b.record(err)
	return err == nil && res.Printed
}
