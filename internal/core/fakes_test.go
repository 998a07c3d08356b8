package core

import (
	"errors"
	"sync"
)

type spoolerCall struct {
	step   string
	handle uintptr
}

// fakeSpooler records every call and fails the configured step.
type fakeSpooler struct {
	mu       sync.Mutex
	failAt   string
	next     uintptr
	open     map[uintptr]bool
	calls    []string
	docNames []string
	written  [][]byte
	shortBy  int
}

var errFakeSpooler = errors.New("the printer name is invalid")

func newFakeSpooler() *fakeSpooler {
	return &fakeSpooler{open: make(map[uintptr]bool)}
}

func (f *fakeSpooler) record(step string) bool {
	f.calls = append(f.calls, step)
	return f.failAt == step
}

func (f *fakeSpooler) Open(printer string) (uintptr, uintptr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.record("open") {
		return 0, 1801, errFakeSpooler
	}
	f.next++
	f.open[f.next] = true
	return f.next, 0, nil
}

func (f *fakeSpooler) StartDoc(handle uintptr, docName string) (uintptr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docNames = append(f.docNames, docName)
	if f.record("start_doc") {
		return 5, errFakeSpooler
	}
	return 0, nil
}

func (f *fakeSpooler) StartPage(handle uintptr) (uintptr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.record("start_page") {
		return 6, errFakeSpooler
	}
	return 0, nil
}

func (f *fakeSpooler) Write(handle uintptr, data []byte) (int, uintptr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.record("write") {
		return 0, 63, errFakeSpooler
	}
	f.written = append(f.written, append([]byte(nil), data...))
	return len(data) - f.shortBy, 0, nil
}

func (f *fakeSpooler) EndPage(handle uintptr) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("end_page")
	return nil
}

func (f *fakeSpooler) EndDoc(handle uintptr) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("end_doc")
	return nil
}

func (f *fakeSpooler) Close(handle uintptr) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("close")
	delete(f.open, handle)
	return nil
}

func (f *fakeSpooler) openHandles() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.open)
}

type fakeRunner struct {
	result  CommandResult
	err     error
	command string
	args    []string
	calls   int
}

func (r *fakeRunner) Run(command string, args []string) (CommandResult, error) {
	r.calls++
	r.command = command
	r.args = args
	return r.result, r.err
}

type writeCall struct {
	target  string
	jobName string
	data    []byte
}

type fakeWriter struct {
	calls []writeCall
	err   error
}

func (w *fakeWriter) Write(target, jobName string, data []byte) (int, error) {
	w.calls = append(w.calls, writeCall{target: target, jobName: jobName, data: data})
	if w.err != nil {
		return 0, w.err
	}
	return len(data), nil
}

type printCall struct {
	target, path, jobName string
}

type fakeCommandPrinter struct {
	calls []printCall
	err   error
}

func (p *fakeCommandPrinter) Print(target, path, jobName string) error {
	p.calls = append(p.calls, printCall{target, path, jobName})
	return p.err
}

type mapDirectory map[string]PrinterRecord

func (d mapDirectory) Find(name string) (*PrinterRecord, bool, error) {
	p, ok := d[name]
	if !ok {
		return nil, false, nil
	}
	return &p, true, nil
}

func (d mapDirectory) List() ([]PrinterRecord, error) {
	out := make([]PrinterRecord, 0, len(d))
	for _, p := range d {
		out = append(out, p)
	}
	return out, nil
}

type recordingObserver struct {
	subs []Submission
}

func (o *recordingObserver) Submitted(s Submission) {
	o.subs = append(o.subs, s)
}
