package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/orrn/printbridge/internal/core"
)

// Store groups the table operations over one connection.
type Store struct {
	Printers    *PrinterOperations
	Submissions *SubmissionOperations
	Webhooks    *WebhookOperations
	Settings    *SettingsOperations
}

func NewStore(conn *sql.DB) *Store {
	return &Store{
		Printers:    &PrinterOperations{db: conn},
		Submissions: &SubmissionOperations{db: conn},
		Webhooks:    &WebhookOperations{db: conn},
		Settings:    &SettingsOperations{db: conn},
	}
}

type PrinterOperations struct {
	db *sql.DB
}

func (o *PrinterOperations) UpsertPrinter(ctx context.Context, p *core.PrinterRecord) error {
	_, err := o.db.ExecContext(ctx, UpsertPrinter,
		p.Name, p.SystemName, p.DriverName, p.URI, p.Location,
		p.IsDefault, p.IsShared, p.State.String())
	if err != nil {
		return fmt.Errorf("failed to upsert printer: %w", err)
	}
	return nil
}

func scanPrinter(row interface{ Scan(...any) error }) (*core.PrinterRecord, error) {
	p := &core.PrinterRecord{}
	var state string
	if err := row.Scan(&p.Name, &p.SystemName, &p.DriverName, &p.URI, &p.Location,
		&p.IsDefault, &p.IsShared, &state); err != nil {
		return nil, err
	}
	p.State = core.ParsePrinterState(state)
	return p, nil
}

func (o *PrinterOperations) GetPrinter(ctx context.Context, name string) (*core.PrinterRecord, error) {
	p, err := scanPrinter(o.db.QueryRowContext(ctx, GetPrinterByName, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to get printer: %w", err)
	}
	return p, nil
}

func (o *PrinterOperations) ListPrinters(ctx context.Context) ([]core.PrinterRecord, error) {
	rows, err := o.db.QueryContext(ctx, ListPrinters)
	if err != nil {
		return nil, fmt.Errorf("failed to list printers: %w", err)
	}
	defer rows.Close()

	var printers []core.PrinterRecord
	for rows.Next() {
		p, err := scanPrinter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan printer: %w", err)
		}
		printers = append(printers, *p)
	}
	return printers, rows.Err()
}

func (o *PrinterOperations) DeletePrinter(ctx context.Context, name string) error {
	result, err := o.db.ExecContext(ctx, DeletePrinter, name)
	if err != nil {
		return fmt.Errorf("failed to delete printer: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type SubmissionOperations struct {
	db *sql.DB
}

func (o *SubmissionOperations) CreateSubmission(ctx context.Context, s *Submission) error {
	_, err := o.db.ExecContext(ctx, InsertSubmission,
		s.ID, s.Printer, s.Target, s.Kind, s.JobName, s.Source,
		s.BytesWritten, s.Success, s.ErrorKind, s.ErrorMessage, s.DurationMs, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func scanSubmission(row interface{ Scan(...any) error }) (*Submission, error) {
	s := &Submission{}
	err := row.Scan(&s.ID, &s.Printer, &s.Target, &s.Kind, &s.JobName, &s.Source,
		&s.BytesWritten, &s.Success, &s.ErrorKind, &s.ErrorMessage, &s.DurationMs, &s.CreatedAt)
	return s, err
}

func (o *SubmissionOperations) GetSubmission(ctx context.Context, id string) (*Submission, error) {
	s, err := scanSubmission(o.db.QueryRowContext(ctx, GetSubmissionByID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return s, nil
}

func (o *SubmissionOperations) ListSubmissions(ctx context.Context, filter SubmissionFilter) ([]*Submission, error) {
	var conditions []string
	var args []interface{}

	if filter.Printer != "" {
		conditions = append(conditions, "printer = ?")
		args = append(args, filter.Printer)
	}
	if filter.Kind != "" {
		conditions = append(conditions, "kind = ?")
		args = append(args, filter.Kind)
	}
	if filter.Success != nil {
		conditions = append(conditions, "success = ?")
		args = append(args, *filter.Success)
	}

	query := selectSubmissions
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"

	limit := 100
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	args = append(args, limit, filter.Offset)

	rows, err := o.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var subs []*Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

type WebhookOperations struct {
	db *sql.DB
}

func (o *WebhookOperations) CreateWebhook(ctx context.Context, w *Webhook) error {
	result, err := o.db.ExecContext(ctx, InsertWebhook, w.Name, w.URL, w.Secret, w.EventsJSON, w.Enabled)
	if err != nil {
		return fmt.Errorf("failed to create webhook: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get webhook id: %w", err)
	}
	w.ID = id
	return nil
}

func scanWebhook(row interface{ Scan(...any) error }) (*Webhook, error) {
	w := &Webhook{}
	err := row.Scan(&w.ID, &w.Name, &w.URL, &w.Secret, &w.EventsJSON, &w.Enabled, &w.CreatedAt)
	return w, err
}

func (o *WebhookOperations) GetWebhook(ctx context.Context, id int64) (*Webhook, error) {
	w, err := scanWebhook(o.db.QueryRowContext(ctx, GetWebhookByID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to get webhook: %w", err)
	}
	return w, nil
}

func (o *WebhookOperations) listWebhooks(ctx context.Context, query string, args ...any) ([]*Webhook, error) {
	rows, err := o.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}
	defer rows.Close()

	var webhooks []*Webhook
	for rows.Next() {
		w, err := scanWebhook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan webhook: %w", err)
		}
		webhooks = append(webhooks, w)
	}
	return webhooks, rows.Err()
}

func (o *WebhookOperations) ListWebhooks(ctx context.Context) ([]*Webhook, error) {
	return o.listWebhooks(ctx, ListWebhooks)
}

func (o *WebhookOperations) ListWebhooksForEvent(ctx context.Context, event string) ([]*Webhook, error) {
	return o.listWebhooks(ctx, ListWebhooksForEvent, fmt.Sprintf("%%%q%%", event))
}

func (o *WebhookOperations) DeleteWebhook(ctx context.Context, id int64) error {
	result, err := o.db.ExecContext(ctx, DeleteWebhook, id)
	if err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type SettingsOperations struct {
	db *sql.DB
}

func (o *SettingsOperations) GetSetting(ctx context.Context, key string) (*Setting, error) {
	s := &Setting{Key: key}
	err := o.db.QueryRowContext(ctx, GetSetting, key).Scan(&s.Value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}
	return s, nil
}

func (o *SettingsOperations) SetSetting(ctx context.Context, key, value string) error {
	if _, err := o.db.ExecContext(ctx, SetSetting, key, value); err != nil {
		return fmt.Errorf("failed to set setting: %w", err)
	}
	return nil
}
