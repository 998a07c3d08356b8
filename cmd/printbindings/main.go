// Command printbindings builds the shared library loaded by foreign-function
// hosts:
//
//	go build -buildmode=c-shared -o libprintbridge.so ./cmd/printbindings
//
// Strings returned by get_printer_by_name, get_printers and last_error are
// owned by the caller and must be released with free_string.
package main

/*
#include <stdlib.h>
#include <stdbool.h>
*/
import "C"

import (
	"os"
	"sync"
	"unsafe"

	"go.uber.org/zap"

	"github.com/orrn/printbridge/internal/config"
	"github.com/orrn/printbridge/internal/core"
	"github.com/orrn/printbridge/internal/directory"
	"github.com/orrn/printbridge/internal/ffi"
	"github.com/orrn/printbridge/internal/logger"
)

// bridge is built on first use from PRINTBRIDGE_CONFIG (or defaults) plus
// the PRINTBRIDGE_* overrides.
var bridge = sync.OnceValue(func() *ffi.Bridge {
	cfg := config.Default()
	if path := os.Getenv("PRINTBRIDGE_CONFIG"); path != "" {
		if loaded, err := config.Load(path); err == nil {
			cfg = loaded
		}
	}
	cfg.ApplyEnv()

	log, err := logger.New(config.LoggingConfig{Level: cfg.Logging.Level, Format: cfg.Logging.Format, Output: "stderr"})
	if err != nil {
		log = zap.NewNop()
	}

	manager := core.NewManager(core.ManagerOptions{
		Directory: directory.FromConfig(cfg.Printers, nil, log),
		Writer:    core.NewDeviceWriter(core.WriterOptions{DeviceDir: cfg.Printers.DeviceDir, Logger: log}),
		Command:   core.NewCommandPrinter(core.CommandOptions{Binary: cfg.Printers.PrintCommand, Logger: log}),
		Logger:    log,
	})
	return ffi.New(manager, log)
})

func goString(s *C.char) *string {
	if s == nil {
		return nil
	}
	v := C.GoString(s)
	return &v
}

func cString(b []byte) *C.char {
	if b == nil {
		return nil
	}
	return C.CString(string(b))
}

//export get_printer_by_name
func get_printer_by_name(name *C.char) *C.char {
	return cString(bridge().PrinterByName(goString(name)))
}

//export get_printers
func get_printers() *C.char {
	return cString(bridge().Printers())
}

//export print
func print(printer, text, jobName *C.char) C.bool {
	return C.bool(bridge().Print(goString(printer), goString(text), goString(jobName)))
}

//export print_file
func print_file(printer, file, jobName *C.char) C.bool {
	return C.bool(bridge().PrintFile(goString(printer), goString(file), goString(jobName)))
}

//export print_pdf_file
func print_pdf_file(printer, file, jobName *C.char) C.bool {
	return C.bool(bridge().PrintPDFFile(goString(printer), goString(file), goString(jobName)))
}

//export last_error
func last_error() *C.char {
	msg := bridge().LastError()
	if msg == "" {
		return nil
	}
	return C.CString(msg)
}

//export free_string
func free_string(s *C.char) {
	if s != nil {
		C.free(unsafe.Pointer(s))
	}
}

func main() {}
