// Package journal records every print submission and fans the outcome out to
// webhook subscribers.
package journal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/orrn/printbridge/internal/core"
	"github.com/orrn/printbridge/internal/db"
)

type Notifier interface {
	SubmissionFinished(s *db.Submission)
}

type Journal struct {
	store    *db.SubmissionOperations
	notifier Notifier
	logger   *zap.Logger
	timeout  time.Duration
}

func New(store *db.SubmissionOperations, notifier Notifier, logger *zap.Logger) *Journal {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Journal{
		store:    store,
		notifier: notifier,
		logger:   logger,
		timeout:  5 * time.Second,
	}
}

// Submitted implements core.Observer. Journal failures are logged and never
// alter the outcome already returned to the caller.
func (j *Journal) Submitted(s core.Submission) {
	rec := Record(s)

	if j.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()
		if err := j.store.CreateSubmission(ctx, rec); err != nil {
			j.logger.Error("failed to journal submission",
				zap.String("id", rec.ID),
				zap.String("printer", rec.Printer),
				zap.Error(err))
		}
	}

	if j.notifier != nil {
		j.notifier.SubmissionFinished(rec)
	}
}

// Record converts a finished submission into its journal row.
func Record(s core.Submission) *db.Submission {
	rec := &db.Submission{
		ID:           uuid.NewString(),
		Printer:      s.Printer,
		Target:       s.Target,
		Kind:         string(s.Kind),
		JobName:      s.JobName,
		Source:       s.Source,
		BytesWritten: s.BytesWritten,
		Success:      s.Success(),
		DurationMs:   s.Duration.Milliseconds(),
		CreatedAt:    s.StartedAt.UTC(),
	}
	if s.Err != nil {
		rec.ErrorKind = string(core.KindOf(s.Err))
		rec.ErrorMessage = s.Err.Error()
	}
	return rec
}

var _ core.Observer = (*Journal)(nil)
