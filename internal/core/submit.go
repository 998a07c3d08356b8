package core

import (
	"os"

	"go.uber.org/zap"
)

// DefaultJobName labels in-memory submissions that arrive without a name.
// File submissions default to their path instead.
const DefaultJobName = "Unnamed"

// RawSubmitter reads a payload and hands it to a DeviceWriter in one attempt.
type RawSubmitter struct {
	writer DeviceWriter
	logger *zap.Logger
}

func NewRawSubmitter(writer DeviceWriter, logger *zap.Logger) *RawSubmitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RawSubmitter{writer: writer, logger: logger}
}

func (s *RawSubmitter) SubmitBytes(target string, data []byte, jobName string) (Result, error) {
	if jobName == "" {
		jobName = DefaultJobName
	}
	return s.write(target, data, jobName)
}

func (s *RawSubmitter) SubmitFile(target, path, jobName string) (Result, error) {
	if jobName == "" {
		jobName = path
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{JobName: jobName}, ioFailure("read", path, err)
	}
	return s.write(target, data, jobName)
}

func (s *RawSubmitter) write(target string, data []byte, jobName string) (Result, error) {
	n, err := s.writer.Write(target, jobName, data)
	if err != nil {
		return Result{JobName: jobName}, err
	}
	return Result{Printed: true, BytesWritten: n, JobName: jobName}, nil
}

// RichSubmitter prints documents that need a renderer, such as PDF, through
// a native print command.
type RichSubmitter struct {
	printer CommandPrinter
	logger  *zap.Logger
}

func NewRichSubmitter(printer CommandPrinter, logger *zap.Logger) *RichSubmitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RichSubmitter{printer: printer, logger: logger}
}

func (s *RichSubmitter) Submit(target, path, jobName string) (Result, error) {
	if _, err := os.Stat(path); err != nil {
		return Result{JobName: jobName}, ioFailure("stat", path, err)
	}
	if err := s.printer.Print(target, path, jobName); err != nil {
		return Result{JobName: jobName}, err
	}
	return Result{Printed: true, JobName: jobName}, nil
}
