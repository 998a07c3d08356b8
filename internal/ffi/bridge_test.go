package ffi

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orrn/printbridge/internal/core"
	"github.com/orrn/printbridge/internal/directory"
)

type memoryWriter struct {
	written map[string][]byte
	err     error
}

func (w *memoryWriter) Write(target, jobName string, data []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	w.written[target] = append([]byte(nil), data...)
	return len(data), nil
}

type stubCommand struct {
	err error
}

func (c stubCommand) Print(target, path, jobName string) error {
	return c.err
}

type panickingPrinters struct {
	Printers
}

func (panickingPrinters) ListPrinters() ([]core.PrinterRecord, error) {
	panic("nil map write")
}

func ptr(s string) *string {
	return &s
}

func newBridge(writer *memoryWriter, cmd core.CommandPrinter) *Bridge {
	dir := directory.NewStatic([]core.PrinterRecord{
		{Name: "Office-LaserJet", SystemName: "office_laserjet", IsDefault: true, State: core.StateReady},
		{Name: "Label"},
	})
	return New(core.NewManager(core.ManagerOptions{
		Directory: dir,
		Writer:    writer,
		Command:   cmd,
	}), nil)
}

func TestPrinterByName(t *testing.T) {
	b := newBridge(&memoryWriter{written: map[string][]byte{}}, stubCommand{})

	out := b.PrinterByName(ptr("Office-LaserJet"))
	require.NotNil(t, out)
	assert.JSONEq(t, `{"name":"Office-LaserJet","system_name":"office_laserjet","driver_name":"","uri":"",
		"location":"","is_default":true,"is_shared":false,"state":"READY"}`, string(out))
	assert.Empty(t, b.LastError())

	assert.Nil(t, b.PrinterByName(ptr("Ghost-Printer")))
	assert.Contains(t, b.LastError(), "not_found")

	assert.Nil(t, b.PrinterByName(nil))
	assert.Contains(t, b.LastError(), ErrNullArgument.Error())

	assert.Nil(t, b.PrinterByName(ptr("\xff\xfe")))
	assert.Contains(t, b.LastError(), "invalid_input")
}

func TestPrinters(t *testing.T) {
	b := newBridge(&memoryWriter{written: map[string][]byte{}}, stubCommand{})

	var list []core.PrinterRecord
	require.NoError(t, json.Unmarshal(b.Printers(), &list))
	assert.Len(t, list, 2)

	empty := New(core.NewManager(core.ManagerOptions{Directory: directory.NewStatic(nil)}), nil)
	assert.Equal(t, "[]", string(empty.Printers()))
}

func TestPrint(t *testing.T) {
	w := &memoryWriter{written: map[string][]byte{}}
	b := newBridge(w, stubCommand{})

	assert.True(t, b.Print(ptr("Office-LaserJet"), ptr("hello"), ptr("test1")))
	assert.Equal(t, []byte("hello"), w.written["office_laserjet"])

	assert.True(t, b.Print(ptr("Label"), ptr("^XA^XZ"), nil))
	assert.Equal(t, []byte("^XA^XZ"), w.written["Label"])

	assert.False(t, b.Print(ptr("Label"), nil, nil))
	assert.False(t, b.Print(ptr("Label"), ptr("bad \xff"), nil))
	assert.Contains(t, b.LastError(), "invalid_input")

	assert.False(t, b.Print(ptr("Ghost-Printer"), ptr("hello"), nil))
	assert.Contains(t, b.LastError(), "not_found")
}

func TestPrint_WriterFailure(t *testing.T) {
	w := &memoryWriter{err: &core.Error{Kind: core.KindIoFailure, Op: "open", Target: "/dev/usb/lp0", Detail: "permission denied"}}
	b := newBridge(w, stubCommand{})

	assert.False(t, b.Print(ptr("Label"), ptr("hello"), nil))
	assert.Equal(t, "io_failure: open /dev/usb/lp0: permission denied", b.LastError())
}

func TestPrintFileAndPDF(t *testing.T) {
	dir := t.TempDir()
	label := filepath.Join(dir, "label.zpl")
	require.NoError(t, os.WriteFile(label, []byte("^XA^FDHi^FS^XZ"), 0o644))

	w := &memoryWriter{written: map[string][]byte{}}
	b := newBridge(w, stubCommand{})

	assert.True(t, b.PrintFile(ptr("Label"), ptr(label), nil))
	assert.Equal(t, []byte("^XA^FDHi^FS^XZ"), w.written["Label"])

	assert.False(t, b.PrintFile(ptr("Label"), ptr(filepath.Join(dir, "missing.zpl")), nil))
	assert.Contains(t, b.LastError(), "io_failure")

	assert.False(t, b.PrintFile(ptr("Label"), nil, nil))

	assert.True(t, b.PrintPDFFile(ptr("Office-LaserJet"), ptr(label), ptr("report")))

	failing := newBridge(w, stubCommand{err: &core.Error{Kind: core.KindExternalToolFailure, Op: "lp", Detail: "lp: Error - unknown destination"}})
	assert.False(t, failing.PrintPDFFile(ptr("Office-LaserJet"), ptr(label), nil))
	assert.Contains(t, failing.LastError(), "unknown destination")
}

func TestPanicsStayInsideBoundary(t *testing.T) {
	b := New(panickingPrinters{}, nil)

	assert.NotPanics(t, func() {
		assert.Nil(t, b.Printers())
	})
	assert.Contains(t, b.LastError(), "internal error")
}

func TestLastErrorClearsOnSuccess(t *testing.T) {
	b := newBridge(&memoryWriter{written: map[string][]byte{}}, stubCommand{})

	b.PrinterByName(ptr("Ghost-Printer"))
	require.NotEmpty(t, b.LastError())

	b.PrinterByName(ptr("Label"))
	assert.Empty(t, b.LastError())
}
