package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/orrn/printbridge/internal/db"
)

type WebhookEvent string

const (
	EventSubmissionCompleted WebhookEvent = "submission.completed"
	EventSubmissionFailed    WebhookEvent = "submission.failed"
)

// Events lists every event a webhook may subscribe to.
var Events = []WebhookEvent{EventSubmissionCompleted, EventSubmissionFailed}

func ValidEvent(name string) bool {
	for _, e := range Events {
		if string(e) == name {
			return true
		}
	}
	return false
}

type WebhookPayload struct {
	Event     string      `json:"event"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
	Signature string      `json:"signature,omitempty"`
}

type WebhookConfig struct {
	RetryCount  int
	RetryDelay  time.Duration
	Timeout     time.Duration
	WorkerCount int
	QueueSize   int
}

type webhookTask struct {
	webhookID int64
	event     WebhookEvent
	payload   *WebhookPayload
	attempt   int
}

type httpStatusError struct {
	StatusCode int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("http error: %d", e.StatusCode)
}

type WebhookSender struct {
	webhooks   *db.WebhookOperations
	httpClient *http.Client
	logger     *zap.Logger
	retryCount int
	retryDelay time.Duration
	workers    int
	queue      chan *webhookTask
	stopCh     chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

func NewWebhookSender(webhooks *db.WebhookOperations, config WebhookConfig, logger *zap.Logger) *WebhookSender {
	if config.RetryCount <= 0 {
		config.RetryCount = 3
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = 5 * time.Second
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = 2
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &WebhookSender{
		webhooks: webhooks,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger:     logger.Named("webhook"),
		retryCount: config.RetryCount,
		retryDelay: config.RetryDelay,
		workers:    config.WorkerCount,
		queue:      make(chan *webhookTask, config.QueueSize),
		stopCh:     make(chan struct{}),
	}
}

func (s *WebhookSender) Start() {
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
}

// Stop abandons queued deliveries and waits for in-flight ones to finish.
func (s *WebhookSender) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}

// SubmissionFinished queues the completed or failed event for every
// subscribed webhook. It never blocks the caller.
func (s *WebhookSender) SubmissionFinished(sub *db.Submission) {
	event := EventSubmissionCompleted
	if !sub.Success {
		event = EventSubmissionFailed
	}
	s.enqueue(event, sub)
}

func (s *WebhookSender) enqueue(event WebhookEvent, data interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	webhooks, err := s.webhooks.ListWebhooksForEvent(ctx, string(event))
	if err != nil {
		s.logger.Error("failed to get webhooks for event",
			zap.String("event", string(event)),
			zap.Error(err))
		return
	}

	for _, webhook := range webhooks {
		task := &webhookTask{
			webhookID: webhook.ID,
			event:     event,
			payload: &WebhookPayload{
				Event:     string(event),
				Timestamp: time.Now().UTC(),
				Data:      data,
			},
		}

		select {
		case s.queue <- task:
		default:
			s.logger.Warn("queue full, dropping webhook delivery",
				zap.Int64("webhook_id", webhook.ID),
				zap.String("event", string(event)))
		}
	}
}

func (s *WebhookSender) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case <-s.stopCh:
			return
		case task := <-s.queue:
			if err := s.sendWithRetry(task); err != nil {
				s.logger.Warn("webhook delivery failed",
					zap.Int("worker", id),
					zap.Int64("webhook_id", task.webhookID),
					zap.String("event", string(task.event)),
					zap.Int("attempts", task.attempt),
					zap.Error(err))
			}
		}
	}
}

func (s *WebhookSender) sendWithRetry(task *webhookTask) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	webhook, err := s.webhooks.GetWebhook(ctx, task.webhookID)
	cancel()
	if err != nil {
		return fmt.Errorf("get webhook: %w", err)
	}

	var lastErr error
	for task.attempt < s.retryCount {
		task.attempt++

		err := s.sendRequest(webhook, task.payload)
		if err == nil {
			return nil
		}
		lastErr = err

		if isClientError(err) {
			return err
		}

		if task.attempt < s.retryCount {
			backoff := s.retryDelay * time.Duration(1<<(task.attempt-1))
			s.logger.Debug("retrying webhook delivery",
				zap.Int64("webhook_id", webhook.ID),
				zap.Int("attempt", task.attempt),
				zap.Duration("backoff", backoff),
				zap.Error(err))

			select {
			case <-s.stopCh:
				return fmt.Errorf("shutdown requested: %w", lastErr)
			case <-time.After(backoff):
			}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (s *WebhookSender) sendRequest(webhook *db.Webhook, payload *WebhookPayload) error {
	dataBytes, err := json.Marshal(payload.Data)
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}

	if webhook.Secret != "" {
		payload.Signature = Sign(dataBytes, webhook.Secret)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, webhook.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Event", payload.Event)
	if payload.Signature != "" {
		req.Header.Set("X-Webhook-Signature", payload.Signature)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &httpStatusError{StatusCode: resp.StatusCode}
	}
	return nil
}

// Sign returns the hex HMAC-SHA256 of the event data, the value carried in
// X-Webhook-Signature.
func Sign(data []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func isClientError(err error) bool {
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 400 && statusErr.StatusCode < 500
	}
	return false
}
