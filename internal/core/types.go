package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type PrinterState int

const (
	StateUnknown PrinterState = iota
	StateReady
	StatePaused
	StatePrinting
)

var printerStateNames = map[PrinterState]string{
	StateReady:    "READY",
	StatePaused:   "PAUSED",
	StatePrinting: "PRINTING",
	StateUnknown:  "UNKNOWN",
}

func (s PrinterState) String() string {
	if name, ok := printerStateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

func ParsePrinterState(s string) PrinterState {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "READY", "IDLE", "NORMAL":
		return StateReady
	case "PAUSED", "STOPPED", "DISABLED":
		return StatePaused
	case "PRINTING", "PROCESSING", "BUSY":
		return StatePrinting
	default:
		return StateUnknown
	}
}

func (s PrinterState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PrinterState) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("printer state: %w", err)
	}
	*s = ParsePrinterState(name)
	return nil
}

func (s PrinterState) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

func (s *PrinterState) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	*s = ParsePrinterState(name)
	return nil
}

// PrinterRecord is what the printer directory knows about one printer.
// Field order and JSON names match the record shape callers receive.
type PrinterRecord struct {
	Name       string       `json:"name" yaml:"name"`
	SystemName string       `json:"system_name" yaml:"system_name"`
	DriverName string       `json:"driver_name" yaml:"driver_name"`
	URI        string       `json:"uri" yaml:"uri"`
	Location   string       `json:"location" yaml:"location"`
	IsDefault  bool         `json:"is_default" yaml:"is_default"`
	IsShared   bool         `json:"is_shared" yaml:"is_shared"`
	State      PrinterState `json:"state" yaml:"state"`
}

// Target is the identifier handed to the OS print API or command.
func (p *PrinterRecord) Target() string {
	if p.SystemName != "" {
		return p.SystemName
	}
	return p.Name
}

type Directory interface {
	Find(name string) (*PrinterRecord, bool, error)
	List() ([]PrinterRecord, error)
}

type SubmissionKind string

const (
	SubmissionRaw  SubmissionKind = "raw"
	SubmissionFile SubmissionKind = "file"
	SubmissionPDF  SubmissionKind = "pdf"
)

type Result struct {
	Printed      bool
	BytesWritten int
	JobName      string
}

// Submission describes one finished attempt, successful or not.
type Submission struct {
	Kind         SubmissionKind
	Printer      string
	Target       string
	JobName      string
	Source       string
	BytesWritten int
	Err          error
	StartedAt    time.Time
	Duration     time.Duration
}

func (s Submission) Success() bool {
	return s.Err == nil
}

type Observer interface {
	Submitted(s Submission)
}
