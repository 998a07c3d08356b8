package core

import (
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Manager is the entry point for printer lookup and job submission. It keeps
// no state between calls; each submission resolves its printer afresh.
type Manager struct {
	directory Directory
	raw       *RawSubmitter
	rich      *RichSubmitter
	observer  Observer
	logger    *zap.Logger
}

type ManagerOptions struct {
	Directory Directory
	Writer    DeviceWriter
	Command   CommandPrinter
	Observer  Observer
	Logger    *zap.Logger
}

func NewManager(opts ManagerOptions) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		directory: opts.Directory,
		raw:       NewRawSubmitter(opts.Writer, logger),
		rich:      NewRichSubmitter(opts.Command, logger),
		observer:  opts.Observer,
		logger:    logger,
	}
}

func checkText(op, s string) error {
	if !utf8.ValidString(s) {
		return invalidInput(op, ErrInvalidEncoding)
	}
	return nil
}

func (m *Manager) GetPrinter(name string) (*PrinterRecord, error) {
	if name == "" {
		return nil, invalidInput("lookup", ErrEmptyTarget)
	}
	if err := checkText("lookup", name); err != nil {
		return nil, err
	}

	p, ok, err := m.directory.Find(name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up printer %q: %w", name, err)
	}
	if !ok {
		return nil, notFound(name)
	}
	return p, nil
}

func (m *Manager) ListPrinters() ([]PrinterRecord, error) {
	printers, err := m.directory.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list printers: %w", err)
	}
	return printers, nil
}

func (m *Manager) Print(name string, data []byte, jobName string) (Result, error) {
	return m.submit(SubmissionRaw, name, "", jobName, func(target string) (Result, error) {
		return m.raw.SubmitBytes(target, data, jobName)
	})
}

func (m *Manager) PrintFile(name, path, jobName string) (Result, error) {
	return m.submit(SubmissionFile, name, path, jobName, func(target string) (Result, error) {
		return m.raw.SubmitFile(target, path, jobName)
	})
}

func (m *Manager) PrintPDF(name, path, jobName string) (Result, error) {
	return m.submit(SubmissionPDF, name, path, jobName, func(target string) (Result, error) {
		return m.rich.Submit(target, path, jobName)
	})
}

func (m *Manager) submit(kind SubmissionKind, name, source, jobName string, do func(target string) (Result, error)) (Result, error) {
	start := time.Now()
	sub := Submission{
		Kind:      kind,
		Printer:   name,
		JobName:   jobName,
		Source:    source,
		StartedAt: start,
	}

	res, err := m.run(&sub, do)
	sub.Duration = time.Since(start)
	sub.BytesWritten = res.BytesWritten
	if res.JobName != "" {
		sub.JobName = res.JobName
	}
	sub.Err = err

	if err != nil {
		m.logger.Warn("print submission failed",
			zap.String("kind", string(kind)),
			zap.String("printer", name),
			zap.String("job", sub.JobName),
			zap.String("failure", string(KindOf(err))),
			zap.Error(err))
	} else {
		m.logger.Info("print submission completed",
			zap.String("kind", string(kind)),
			zap.String("printer", name),
			zap.String("job", sub.JobName),
			zap.Int("bytes", res.BytesWritten),
			zap.Duration("duration", sub.Duration))
	}

	if m.observer != nil {
		m.observer.Submitted(sub)
	}
	return res, err
}

func (m *Manager) run(sub *Submission, do func(target string) (Result, error)) (Result, error) {
	for op, s := range map[string]string{"job name": sub.JobName, "path": sub.Source} {
		if err := checkText(op, s); err != nil {
			return Result{}, err
		}
	}

	p, err := m.GetPrinter(sub.Printer)
	if err != nil {
		return Result{}, err
	}
	sub.Target = p.Target()
	return do(sub.Target)
}
