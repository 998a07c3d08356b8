package db

const (
	UpsertPrinter = `
		INSERT INTO printers (name, system_name, driver_name, uri, location, is_default, is_shared, state)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			system_name = excluded.system_name,
			driver_name = excluded.driver_name,
			uri = excluded.uri,
			location = excluded.location,
			is_default = excluded.is_default,
			is_shared = excluded.is_shared,
			state = excluded.state,
			updated_at = CURRENT_TIMESTAMP
	`

	GetPrinterByName = `
		SELECT name, system_name, driver_name, uri, location, is_default, is_shared, state
		FROM printers WHERE name = ?
	`

	ListPrinters = `
		SELECT name, system_name, driver_name, uri, location, is_default, is_shared, state
		FROM printers ORDER BY name ASC
	`

	DeletePrinter = `DELETE FROM printers WHERE name = ?`
)

const (
	InsertSubmission = `
		INSERT INTO submissions (id, printer, target, kind, job_name, source, bytes_written, success, error_kind, error_message, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	GetSubmissionByID = `
		SELECT id, printer, target, kind, job_name, source, bytes_written, success, error_kind, error_message, duration_ms, created_at
		FROM submissions WHERE id = ?
	`

	selectSubmissions = `
		SELECT id, printer, target, kind, job_name, source, bytes_written, success, error_kind, error_message, duration_ms, created_at
		FROM submissions
	`
)

const (
	InsertWebhook = `
		INSERT INTO webhooks (name, url, secret, events_json, enabled)
		VALUES (?, ?, ?, ?, ?)
	`

	GetWebhookByID = `
		SELECT id, name, url, secret, events_json, enabled, created_at
		FROM webhooks WHERE id = ?
	`

	ListWebhooks = `
		SELECT id, name, url, secret, events_json, enabled, created_at
		FROM webhooks ORDER BY name ASC
	`

	ListWebhooksForEvent = `
		SELECT id, name, url, secret, events_json, enabled, created_at
		FROM webhooks WHERE enabled = 1 AND events_json LIKE ?
	`

	DeleteWebhook = `DELETE FROM webhooks WHERE id = ?`
)

const (
	GetSetting = `SELECT value FROM settings WHERE key = ?`

	SetSetting = `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
)
