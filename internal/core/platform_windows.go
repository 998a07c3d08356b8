//go:build windows

package core

import (
	"errors"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	winspool             = windows.NewLazySystemDLL("winspool.drv")
	procOpenPrinterW     = winspool.NewProc("OpenPrinterW")
	procStartDocPrinterW = winspool.NewProc("StartDocPrinterW")
	procStartPagePrinter = winspool.NewProc("StartPagePrinter")
	procWritePrinter     = winspool.NewProc("WritePrinter")
	procEndPagePrinter   = winspool.NewProc("EndPagePrinter")
	procEndDocPrinter    = winspool.NewProc("EndDocPrinter")
	procClosePrinter     = winspool.NewProc("ClosePrinter")
)

// docInfo1 mirrors DOC_INFO_1.
type docInfo1 struct {
	docName    *uint16
	outputFile *uint16
	datatype   *uint16
}

type winspoolAPI struct{}

func errnoCode(err error) uintptr {
	var errno windows.Errno
	if errors.As(err, &errno) {
		return uintptr(errno)
	}
	return 0
}

func (winspoolAPI) Open(printer string) (uintptr, uintptr, error) {
	name, err := windows.UTF16PtrFromString(printer)
	if err != nil {
		return 0, 0, err
	}
	var handle windows.Handle
	r, _, callErr := procOpenPrinterW.Call(uintptr(unsafe.Pointer(name)), uintptr(unsafe.Pointer(&handle)), 0)
	if r == 0 {
		return 0, errnoCode(callErr), callErr
	}
	return uintptr(handle), 0, nil
}

func (winspoolAPI) StartDoc(handle uintptr, docName string) (uintptr, error) {
	name, err := windows.UTF16PtrFromString(docName)
	if err != nil {
		return 0, err
	}
	datatype, _ := windows.UTF16PtrFromString("RAW")
	info := docInfo1{docName: name, datatype: datatype}
	r, _, callErr := procStartDocPrinterW.Call(handle, 1, uintptr(unsafe.Pointer(&info)))
	if r == 0 {
		return errnoCode(callErr), callErr
	}
	return 0, nil
}

func (winspoolAPI) StartPage(handle uintptr) (uintptr, error) {
	r, _, callErr := procStartPagePrinter.Call(handle)
	if r == 0 {
		return errnoCode(callErr), callErr
	}
	return 0, nil
}

func (winspoolAPI) Write(handle uintptr, data []byte) (int, uintptr, error) {
	var written uint32
	var ptr uintptr
	if len(data) > 0 {
		ptr = uintptr(unsafe.Pointer(&data[0]))
	}
	r, _, callErr := procWritePrinter.Call(handle, ptr, uintptr(len(data)), uintptr(unsafe.Pointer(&written)))
	if r == 0 {
		return int(written), errnoCode(callErr), callErr
	}
	return int(written), 0, nil
}

func (winspoolAPI) EndPage(handle uintptr) error {
	if r, _, err := procEndPagePrinter.Call(handle); r == 0 {
		return err
	}
	return nil
}

func (winspoolAPI) EndDoc(handle uintptr) error {
	if r, _, err := procEndDocPrinter.Call(handle); r == 0 {
		return err
	}
	return nil
}

func (winspoolAPI) Close(handle uintptr) error {
	if r, _, err := procClosePrinter.Call(handle); r == 0 {
		return err
	}
	return nil
}

// NewDeviceWriter returns the spooler-backed writer on Windows.
func NewDeviceWriter(opts WriterOptions) DeviceWriter {
	return NewSpoolerWriter(winspoolAPI{}, opts.Logger)
}

// NewCommandPrinter returns the shell print strategy on Windows.
func NewCommandPrinter(opts CommandOptions) CommandPrinter {
	return NewShellPrintCommand(opts)
}
