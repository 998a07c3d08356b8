package directory

import (
	"bufio"
	"encoding/json"
	"fmt"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/orrn/printbridge/internal/core"
)

const windowsListScript = `$d = (Get-CimInstance -ClassName Win32_Printer -Filter 'Default=TRUE').Name; ` +
	`ConvertTo-Json -Compress -InputObject @(Get-Printer | Select-Object Name,DriverName,PortName,Location,Shared,` +
	`@{n='Status';e={[string]$_.PrinterStatus}},@{n='Default';e={$_.Name -eq $d}})`

type SystemOptions struct {
	// Binary overrides the discovery program.
	Binary string
	// Platform selects the output dialect; defaults to runtime.GOOS.
	Platform string
	Runner   core.CommandRunner
	Logger   *zap.Logger
}

// System asks the operating system for its installed printers on every call.
type System struct {
	opts SystemOptions
}

func NewSystem(opts SystemOptions) *System {
	if opts.Platform == "" {
		opts.Platform = runtime.GOOS
	}
	if opts.Binary == "" {
		if opts.Platform == "windows" {
			opts.Binary = "powershell.exe"
		} else {
			opts.Binary = "lpstat"
		}
	}
	if opts.Runner == nil {
		opts.Runner = core.ExecRunner{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &System{opts: opts}
}

func (s *System) args() []string {
	if s.opts.Platform == "windows" {
		return []string{"-NoProfile", "-NonInteractive", "-Command", windowsListScript}
	}
	return []string{"-l", "-p", "-d", "-v"}
}

func (s *System) List() ([]core.PrinterRecord, error) {
	res, err := s.opts.Runner.Run(s.opts.Binary, s.args())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrLaunchFailed, s.opts.Binary, err)
	}
	if res.ExitCode != 0 {
		// lpstat exits non-zero when no destinations are configured.
		if s.opts.Platform != "windows" && strings.Contains(res.Stderr, "No destinations added") {
			return []core.PrinterRecord{}, nil
		}
		return nil, fmt.Errorf("%w: %s exited %d: %s", core.ErrNonZeroExit,
			s.opts.Binary, res.ExitCode, strings.TrimSpace(res.Stderr))
	}

	var records []core.PrinterRecord
	if s.opts.Platform == "windows" {
		records, err = parseGetPrinter(res.Stdout)
	} else {
		records, err = parseLpstat(res.Stdout)
	}
	if err != nil {
		return nil, err
	}
	s.opts.Logger.Debug("discovered system printers", zap.Int("count", len(records)))
	return records, nil
}

// Find matches either the display name or the queue name.
func (s *System) Find(name string) (*core.PrinterRecord, bool, error) {
	records, err := s.List()
	if err != nil {
		return nil, false, err
	}
	for i := range records {
		if records[i].Name == name || records[i].SystemName == name {
			return &records[i], true, nil
		}
	}
	return nil, false, nil
}

func lpstatState(status string) core.PrinterState {
	switch {
	case strings.Contains(status, "disabled"):
		return core.StatePaused
	case strings.Contains(status, "now printing"):
		return core.StatePrinting
	case strings.Contains(status, "is idle"):
		return core.StateReady
	default:
		return core.StateUnknown
	}
}

// parseLpstat reads the output of `lpstat -l -p -d -v`. A queue's
// Description becomes its display name when present.
func parseLpstat(out string) ([]core.PrinterRecord, error) {
	var records []core.PrinterRecord
	var def string
	current := -1
	devices := make(map[string]string)
	byQueue := make(map[string]int)

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "printer "):
			fields := strings.Fields(line)
			if len(fields) < 2 {
				continue
			}
			queue := fields[1]
			records = append(records, core.PrinterRecord{
				Name:       queue,
				SystemName: queue,
				State:      lpstatState(line),
			})
			current = len(records) - 1
			byQueue[queue] = current

		case strings.HasPrefix(line, "system default destination:"):
			def = strings.TrimSpace(strings.TrimPrefix(line, "system default destination:"))
			current = -1

		case strings.HasPrefix(line, "device for "):
			rest := strings.TrimPrefix(line, "device for ")
			queue, uri, ok := strings.Cut(rest, ": ")
			if ok {
				devices[queue] = strings.TrimSpace(uri)
			}
			current = -1

		case current >= 0 && line != trimmed:
			key, value, ok := strings.Cut(trimmed, ":")
			if !ok {
				continue
			}
			value = strings.TrimSpace(value)
			switch key {
			case "Description":
				if value != "" {
					records[current].Name = value
				}
			case "Location":
				records[current].Location = value
			case "Interface":
				records[current].DriverName = value
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lpstat output: %w", err)
	}

	for queue, uri := range devices {
		if i, ok := byQueue[queue]; ok {
			records[i].URI = uri
		}
	}
	if i, ok := byQueue[def]; ok {
		records[i].IsDefault = true
	}
	if records == nil {
		records = []core.PrinterRecord{}
	}
	return records, nil
}

type winPrinter struct {
	Name       string `json:"Name"`
	DriverName string `json:"DriverName"`
	PortName   string `json:"PortName"`
	Location   string `json:"Location"`
	Shared     bool   `json:"Shared"`
	Status     string `json:"Status"`
	Default    bool   `json:"Default"`
}

func parseGetPrinter(out string) ([]core.PrinterRecord, error) {
	out = strings.TrimSpace(out)
	if out == "" {
		return []core.PrinterRecord{}, nil
	}
	if strings.HasPrefix(out, "{") {
		out = "[" + out + "]"
	}

	var printers []winPrinter
	if err := json.Unmarshal([]byte(out), &printers); err != nil {
		return nil, fmt.Errorf("failed to parse Get-Printer output: %w", err)
	}

	records := make([]core.PrinterRecord, 0, len(printers))
	for _, p := range printers {
		records = append(records, core.PrinterRecord{
			Name:       p.Name,
			SystemName: p.Name,
			DriverName: p.DriverName,
			URI:        p.PortName,
			Location:   p.Location,
			IsDefault:  p.Default,
			IsShared:   p.Shared,
			State:      core.ParsePrinterState(p.Status),
		})
	}
	return records, nil
}

var _ core.Directory = (*System)(nil)
