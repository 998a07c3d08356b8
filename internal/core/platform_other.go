//go:build !windows

package core

// NewDeviceWriter returns the device-file writer on platforms that expose
// printers as writable nodes.
func NewDeviceWriter(opts WriterOptions) DeviceWriter {
	return NewDeviceFileWriter(opts)
}

// NewCommandPrinter returns the lp strategy on CUPS platforms.
func NewCommandPrinter(opts CommandOptions) CommandPrinter {
	return NewLPCommand(opts)
}
