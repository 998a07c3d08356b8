package db

import (
	"time"
)

type Submission struct {
	ID           string    `json:"id"`
	Printer      string    `json:"printer"`
	Target       string    `json:"target"`
	Kind         string    `json:"kind"`
	JobName      string    `json:"job_name"`
	Source       string    `json:"source,omitempty"`
	BytesWritten int       `json:"bytes_written"`
	Success      bool      `json:"success"`
	ErrorKind    string    `json:"error_kind,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	DurationMs   int64     `json:"duration_ms"`
	CreatedAt    time.Time `json:"created_at"`
}

type Webhook struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Secret     string    `json:"secret,omitempty"`
	EventsJSON string    `json:"events_json"`
	Enabled    bool      `json:"enabled"`
	CreatedAt  time.Time `json:"created_at"`
}

type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type SubmissionFilter struct {
	Printer string
	Kind    string
	Success *bool
	Limit   int
	Offset  int
}
