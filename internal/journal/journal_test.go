package journal

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orrn/printbridge/internal/core"
	"github.com/orrn/printbridge/internal/db"
)

type captureNotifier struct {
	got []*db.Submission
}

func (n *captureNotifier) SubmissionFinished(s *db.Submission) {
	n.got = append(n.got, s)
}

func newMockStore(t *testing.T) (*db.Store, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return db.NewStore(conn), mock
}

func TestRecord(t *testing.T) {
	started := time.Date(2026, 5, 2, 9, 30, 0, 0, time.FixedZone("CEST", 2*3600))
	rec := Record(core.Submission{
		Kind:         core.SubmissionRaw,
		Printer:      "Office-LaserJet",
		Target:       "office_laserjet",
		JobName:      "test1",
		BytesWritten: 5,
		StartedAt:    started,
		Duration:     1500 * time.Millisecond,
	})

	_, err := uuid.Parse(rec.ID)
	require.NoError(t, err)
	assert.True(t, rec.Success)
	assert.Equal(t, "raw", rec.Kind)
	assert.Equal(t, int64(1500), rec.DurationMs)
	assert.Equal(t, time.UTC, rec.CreatedAt.Location())
	assert.Empty(t, rec.ErrorKind)
}

func TestRecord_Failure(t *testing.T) {
	err := core.NewInvalidInput("printer", core.ErrInvalidEncoding)
	rec := Record(core.Submission{Kind: core.SubmissionPDF, Printer: "x", Err: err})

	assert.False(t, rec.Success)
	assert.Equal(t, "invalid_input", rec.ErrorKind)
	assert.Equal(t, err.Error(), rec.ErrorMessage)
}

func TestJournal_Submitted(t *testing.T) {
	store, mock := newMockStore(t)
	notifier := &captureNotifier{}
	j := New(store.Submissions, notifier, nil)

	mock.ExpectExec("INSERT INTO submissions").
		WithArgs(sqlmock.AnyArg(), "Office-LaserJet", "office_laserjet", "raw", "test1", "",
			5, true, "", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	j.Submitted(core.Submission{
		Kind:         core.SubmissionRaw,
		Printer:      "Office-LaserJet",
		Target:       "office_laserjet",
		JobName:      "test1",
		BytesWritten: 5,
		StartedAt:    time.Now(),
	})

	require.NoError(t, mock.ExpectationsWereMet())
	require.Len(t, notifier.got, 1)
	assert.Equal(t, "test1", notifier.got[0].JobName)
}

func TestJournal_StoreFailureStillNotifies(t *testing.T) {
	store, mock := newMockStore(t)
	notifier := &captureNotifier{}
	j := New(store.Submissions, notifier, nil)

	mock.ExpectExec("INSERT INTO submissions").WillReturnError(errors.New("database is locked"))

	j.Submitted(core.Submission{Kind: core.SubmissionFile, Printer: "Label", Err: sql.ErrConnDone})

	require.NoError(t, mock.ExpectationsWereMet())
	require.Len(t, notifier.got, 1)
	assert.False(t, notifier.got[0].Success)
}
