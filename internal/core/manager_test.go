package core

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type managerFixture struct {
	writer   *fakeWriter
	command  *fakeCommandPrinter
	observer *recordingObserver
	manager  *Manager
}

func newManagerFixture() *managerFixture {
	f := &managerFixture{
		writer:   &fakeWriter{},
		command:  &fakeCommandPrinter{},
		observer: &recordingObserver{},
	}
	f.manager = NewManager(ManagerOptions{
		Directory: mapDirectory{
			"Office-LaserJet": {
				Name:       "Office-LaserJet",
				SystemName: "office_laserjet",
				DriverName: "HP LaserJet",
				IsDefault:  true,
				State:      StateReady,
			},
			"Label": {Name: "Label", State: StateReady},
		},
		Writer:   f.writer,
		Command:  f.command,
		Observer: f.observer,
	})
	return f
}

func TestManager_PrintRawBytes(t *testing.T) {
	f := newManagerFixture()

	res, err := f.manager.Print("Office-LaserJet", []byte("hello"), "test1")
	require.NoError(t, err)
	assert.True(t, res.Printed)
	assert.Equal(t, 5, res.BytesWritten)

	require.Len(t, f.writer.calls, 1)
	assert.Equal(t, "office_laserjet", f.writer.calls[0].target)
	assert.Equal(t, "test1", f.writer.calls[0].jobName)

	require.Len(t, f.observer.subs, 1)
	assert.True(t, f.observer.subs[0].Success())
	assert.Equal(t, SubmissionRaw, f.observer.subs[0].Kind)
	assert.Equal(t, 5, f.observer.subs[0].BytesWritten)
}

func TestManager_TargetFallsBackToName(t *testing.T) {
	f := newManagerFixture()

	_, err := f.manager.Print("Label", []byte("^XA^XZ"), "")
	require.NoError(t, err)
	require.Len(t, f.writer.calls, 1)
	assert.Equal(t, "Label", f.writer.calls[0].target)
	assert.Equal(t, DefaultJobName, f.writer.calls[0].jobName)
}

func TestManager_UnknownPrinterNeverReachesDevice(t *testing.T) {
	f := newManagerFixture()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

	_, err := f.manager.GetPrinter("Ghost-Printer")
	assert.True(t, IsNotFound(err))

	_, err = f.manager.Print("Ghost-Printer", []byte("hello"), "")
	assert.True(t, IsNotFound(err))
	assert.ErrorIs(t, err, ErrPrinterNotFound)

	_, err = f.manager.PrintFile("Ghost-Printer", path, "")
	assert.True(t, IsNotFound(err))

	_, err = f.manager.PrintPDF("Ghost-Printer", path, "")
	assert.True(t, IsNotFound(err))

	assert.Empty(t, f.writer.calls)
	assert.Empty(t, f.command.calls)
	assert.Len(t, f.observer.subs, 3)
}

func TestManager_PrintFileMissing(t *testing.T) {
	f := newManagerFixture()
	path := filepath.Join(t.TempDir(), "nope.prn")

	_, err := f.manager.PrintFile("Office-LaserJet", path, "")
	require.Error(t, err)
	assert.True(t, IsIoFailure(err))
	assert.Contains(t, err.Error(), path)
	assert.Empty(t, f.writer.calls)
}

func TestManager_PrintFileDefaultsJobNameToPath(t *testing.T) {
	f := newManagerFixture()
	path := filepath.Join(t.TempDir(), "label.zpl")
	require.NoError(t, os.WriteFile(path, []byte("^XA^FDhi^FS^XZ"), 0o600))

	res, err := f.manager.PrintFile("Office-LaserJet", path, "")
	require.NoError(t, err)
	assert.Equal(t, 14, res.BytesWritten)
	assert.Equal(t, path, res.JobName)
	assert.Equal(t, path, f.writer.calls[0].jobName)
	assert.Equal(t, path, f.observer.subs[0].Source)
}

func TestManager_WriterFailurePropagates(t *testing.T) {
	f := newManagerFixture()
	f.writer.err = ioFailure("open", "/dev/usb/lp0", os.ErrPermission)

	res, err := f.manager.Print("Office-LaserJet", []byte("hello"), "")
	require.Error(t, err)
	assert.False(t, res.Printed)
	assert.True(t, IsIoFailure(err))
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.False(t, f.observer.subs[0].Success())
}

func TestManager_NotIdempotent(t *testing.T) {
	f := newManagerFixture()

	for i := 0; i < 2; i++ {
		res, err := f.manager.Print("Office-LaserJet", []byte("hello"), "dup")
		require.NoError(t, err)
		assert.True(t, res.Printed)
	}
	assert.Len(t, f.writer.calls, 2)
}

func TestManager_EmptyPayloadOnDeviceFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "office_laserjet"), nil, 0o600))
	m := NewManager(ManagerOptions{
		Directory: mapDirectory{"Office-LaserJet": {Name: "Office-LaserJet", SystemName: "office_laserjet"}},
		Writer:    NewDeviceFileWriter(WriterOptions{DeviceDir: dir}),
	})

	res, err := m.Print("Office-LaserJet", nil, "")
	require.NoError(t, err)
	assert.True(t, res.Printed)
	assert.Zero(t, res.BytesWritten)
}

func TestManager_InvalidInput(t *testing.T) {
	f := newManagerFixture()

	_, err := f.manager.Print("", []byte("x"), "")
	assert.True(t, IsInvalidInput(err))

	_, err = f.manager.Print("Office\xff", []byte("x"), "")
	assert.True(t, IsInvalidInput(err))

	_, err = f.manager.Print("Office-LaserJet", []byte("x"), "bad\xfe")
	assert.True(t, IsInvalidInput(err))

	assert.Empty(t, f.writer.calls)
}

func TestManager_PrintPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

	t.Run("utility exits zero", func(t *testing.T) {
		runner := &fakeRunner{}
		m := NewManager(ManagerOptions{
			Directory: mapDirectory{"Office-LaserJet": {Name: "Office-LaserJet"}},
			Command:   NewLPCommand(CommandOptions{Runner: runner}),
		})

		res, err := m.PrintPDF("Office-LaserJet", path, "report")
		require.NoError(t, err)
		assert.True(t, res.Printed)
		assert.Zero(t, res.BytesWritten)
		assert.Equal(t, []string{"-d", "Office-LaserJet", "-t", "report", "--", path}, runner.args)
	})

	t.Run("utility missing", func(t *testing.T) {
		m := NewManager(ManagerOptions{
			Directory: mapDirectory{"Office-LaserJet": {Name: "Office-LaserJet"}},
			Command:   NewLPCommand(CommandOptions{Binary: "printbridge-no-such-lp"}),
		})

		_, err := m.PrintPDF("Office-LaserJet", path, "")
		require.Error(t, err)
		assert.True(t, IsExternalToolFailure(err))
		assert.ErrorIs(t, err, ErrLaunchFailed)
		assert.ErrorIs(t, err, exec.ErrNotFound)
	})

	t.Run("document missing", func(t *testing.T) {
		f := newManagerFixture()

		_, err := f.manager.PrintPDF("Office-LaserJet", filepath.Join(t.TempDir(), "gone.pdf"), "")
		assert.True(t, IsIoFailure(err))
		assert.Empty(t, f.command.calls)
	})
}

func TestManager_ListPrinters(t *testing.T) {
	f := newManagerFixture()

	printers, err := f.manager.ListPrinters()
	require.NoError(t, err)
	assert.Len(t, printers, 2)
}
