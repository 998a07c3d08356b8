package core

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

type DeviceWriter interface {
	Write(target, jobName string, data []byte) (int, error)
}

type WriterOptions struct {
	// DeviceDir is where relative targets are resolved by the device-file writer.
	DeviceDir string
	Logger    *zap.Logger
}

const defaultDeviceDir = "/dev"

// DeviceFileWriter writes raw payloads to printers exposed as device nodes.
type DeviceFileWriter struct {
	dir    string
	logger *zap.Logger
}

func NewDeviceFileWriter(opts WriterOptions) *DeviceFileWriter {
	if opts.DeviceDir == "" {
		opts.DeviceDir = defaultDeviceDir
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &DeviceFileWriter{dir: opts.DeviceDir, logger: opts.Logger}
}

func (w *DeviceFileWriter) Path(target string) string {
	if filepath.IsAbs(target) {
		return target
	}
	return filepath.Join(w.dir, target)
}

func (w *DeviceFileWriter) Write(target, jobName string, data []byte) (int, error) {
	if target == "" {
		return 0, invalidInput("write", ErrEmptyTarget)
	}
	path := w.Path(target)

	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return 0, ioFailure("open", path, err)
	}
	defer f.Close()

	n, err := f.Write(data)
	if err != nil {
		return n, ioFailure("write", path, err)
	}
	if n != len(data) {
		return n, ioFailure("write", path, fmt.Errorf("%w: %d of %d", ErrShortWrite, n, len(data)))
	}

	w.logger.Debug("payload written to device",
		zap.String("device", path),
		zap.String("job", jobName),
		zap.Int("bytes", n))
	return n, nil
}

// Spooler is the handle-based print API of the host OS. Every call that
// returns an error also reports the native error code.
type Spooler interface {
	Open(printer string) (handle uintptr, code uintptr, err error)
	StartDoc(handle uintptr, docName string) (code uintptr, err error)
	StartPage(handle uintptr) (code uintptr, err error)
	Write(handle uintptr, data []byte) (written int, code uintptr, err error)
	EndPage(handle uintptr) error
	EndDoc(handle uintptr) error
	Close(handle uintptr) error
}

// SpoolerWriter frames one payload as a single-page spooler document.
type SpoolerWriter struct {
	api    Spooler
	logger *zap.Logger
}

func NewSpoolerWriter(api Spooler, logger *zap.Logger) *SpoolerWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SpoolerWriter{api: api, logger: logger}
}

func (w *SpoolerWriter) Write(target, jobName string, data []byte) (n int, err error) {
	if target == "" {
		return 0, invalidInput("write", ErrEmptyTarget)
	}

	handle, code, err := w.api.Open(target)
	if err != nil {
		return 0, ioFailure("open", target, nativeError("OpenPrinter", code, err))
	}
	defer w.release("ClosePrinter", target, func() error { return w.api.Close(handle) })

	if code, err := w.api.StartDoc(handle, jobName); err != nil {
		return 0, ioFailure("start document", target, nativeError("StartDocPrinter", code, err))
	}
	defer w.release("EndDocPrinter", target, func() error { return w.api.EndDoc(handle) })

	if code, err := w.api.StartPage(handle); err != nil {
		return 0, ioFailure("start page", target, nativeError("StartPagePrinter", code, err))
	}
	defer w.release("EndPagePrinter", target, func() error { return w.api.EndPage(handle) })

	n, code, err = w.api.Write(handle, data)
	if err != nil {
		return n, ioFailure("write", target, nativeError("WritePrinter", code, err))
	}
	if n != len(data) {
		return n, ioFailure("write", target, fmt.Errorf("%w: %d of %d", ErrShortWrite, n, len(data)))
	}

	w.logger.Debug("payload spooled",
		zap.String("printer", target),
		zap.String("job", jobName),
		zap.Int("bytes", n))
	return n, nil
}

func (w *SpoolerWriter) release(step, target string, fn func() error) {
	if err := fn(); err != nil {
		w.logger.Warn("spooler release failed",
			zap.String("step", step),
			zap.String("printer", target),
			zap.Error(err))
	}
}

var (
	_ DeviceWriter = (*DeviceFileWriter)(nil)
	_ DeviceWriter = (*SpoolerWriter)(nil)
)
