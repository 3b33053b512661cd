package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/rmoreas/benefits-portal/internal"
	"github.com/rmoreas/benefits-portal/internal/core/events"
)

// Message is one outbound email handed to the mailer webhook. Decision
// notifications carry the structured request fields alongside the rendered
// subject and body so the mailer can template or route on them.
type Message struct {
	To              string `json:"to"`
	Subject         string `json:"subject"`
	Body            string `json:"body"`
	RequestID       int64  `json:"request_id,omitempty"`
	Action          string `json:"action,omitempty"`
	RejectionReason string `json:"rejection_reason,omitempty"`
}

type Worker struct {
	ID         int
	WorkerPool chan chan Message
	JobChannel chan Message
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan Message, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan Message),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup, processFunc func(Message)) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			w.WorkerPool <- w.JobChannel

			select {
			case msg := <-w.JobChannel:
				w.Logger.Debug("worker sending mail", "worker_id", w.ID, "to", msg.To)
				processFunc(msg)
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

type Config struct {
	MailerURL   string
	APIKey      string
	SendTimeout time.Duration
	MaxWorkers  int
	QueueSize   int
}

// Mailer posts notification emails to an external mailer webhook. Delivery is
// fire-and-forget: failures are logged and never reach the caller.
type Mailer struct {
	mailerURL   string
	apiKey      string
	sendTimeout time.Duration
	logger      *slog.Logger

	jobQueue   chan Message
	workerPool chan chan Message
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

func NewMailer(config Config, logger *slog.Logger) *Mailer {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	queueSize := config.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}

	sendTimeout := config.SendTimeout
	if sendTimeout <= 0 {
		sendTimeout = 5 * time.Second
	}

	m := &Mailer{
		mailerURL:   config.MailerURL,
		apiKey:      config.APIKey,
		sendTimeout: sendTimeout,
		logger:      logger,

		maxWorkers: maxWorkers,
		jobQueue:   make(chan Message, queueSize),
		workerPool: make(chan chan Message, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}

	m.startWorkerPool()

	return m
}

func (m *Mailer) startWorkerPool() {
	m.once.Do(func() {
		for i := 0; i < m.maxWorkers; i++ {
			worker := NewWorker(i, m.workerPool, m.logger)
			worker.Start(m.ctx, &m.wg, m.deliver)
		}

		m.wg.Add(1)
		go m.dispatch()

		m.logger.Info("mailer worker pool started",
			"max_workers", m.maxWorkers,
			"queue_size", cap(m.jobQueue))
	})
}

func (m *Mailer) dispatch() {
	defer m.wg.Done()

	for {
		select {
		case msg := <-m.jobQueue:
			select {
			case jobChannel := <-m.workerPool:
				select {
				case jobChannel <- msg:

				case <-m.ctx.Done():
					m.logger.Info("mailer dispatcher shutting down")
					return
				}
			case <-m.ctx.Done():
				m.logger.Info("mailer dispatcher shutting down")
				return
			}
		case <-m.ctx.Done():
			m.logger.Info("mailer dispatcher shutting down")
			return
		}
	}
}

func (m *Mailer) Shutdown() {
	m.logger.Info("shutting down mailer")
	m.cancel()
	m.wg.Wait()
	m.logger.Info("mailer shutdown complete")
}

// Enqueue queues a message for delivery. A full queue drops the message with
// a warning instead of blocking the request flow.
func (m *Mailer) Enqueue(msg Message) {
	if m.mailerURL == "" {
		m.logger.Debug("mailer not configured, dropping message", "to", msg.To)
		return
	}

	select {
	case m.jobQueue <- msg:
		m.logger.Info("mail queued", "to", msg.To, "subject", msg.Subject, "queue_length", len(m.jobQueue))
	default:
		m.logger.Warn("mail queue full, dropping message", "to", msg.To, "queue_capacity", cap(m.jobQueue))
	}
}

func (m *Mailer) deliver(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		m.logger.Error("failed to marshal mail payload", "error", err, "to", msg.To)
		return
	}

	ctx, cancel := internal.WithTimeout(m.ctx, m.sendTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.mailerURL, bytes.NewBuffer(payload))
	if err != nil {
		m.logger.Error("failed to build mail request", "error", err, "to", msg.To)
		return
	}

	req.Header.Set("Content-Type", "application/json")
	if m.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+m.apiKey)
	}

	client := &http.Client{Timeout: m.sendTimeout}
	resp, err := client.Do(req)
	if err != nil {
		m.logger.Error("mail delivery failed", "error", err, "to", msg.To)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		m.logger.Error("mailer webhook returned error status", "status", resp.StatusCode, "to", msg.To)
		return
	}

	m.logger.Info("mail delivered", "to", msg.To, "subject", msg.Subject)
}

// SubscribeToDecisions wires the mailer into the event bus so decided
// requests notify their owners.
func (m *Mailer) SubscribeToDecisions(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeRequestDecided, func(ctx context.Context, event events.Event) error {
		decided, ok := event.(*events.RequestDecidedEvent)
		if !ok {
			return fmt.Errorf("unexpected event payload for %s", event.EventType())
		}

		if decided.RecipientEmail == "" {
			m.logger.Warn("decided event without recipient email", "request_id", decided.RequestID)
			return nil
		}

		m.Enqueue(BuildDecisionMessage(decided))
		return nil
	})
}

// BuildDecisionMessage renders the notification for an approval or rejection.
func BuildDecisionMessage(decided *events.RequestDecidedEvent) Message {
	if decided.Action == "rejected" {
		return Message{
			To:      decided.RecipientEmail,
			Subject: fmt.Sprintf("Benefit request #%d was rejected", decided.RequestID),
			Body: fmt.Sprintf(
				"Your benefit request #%d was rejected.\n\nReason: %s\n",
				decided.RequestID, decided.RejectionReason),
			RequestID:       decided.RequestID,
			Action:          decided.Action,
			RejectionReason: decided.RejectionReason,
		}
	}

	return Message{
		To:      decided.RecipientEmail,
		Subject: fmt.Sprintf("Benefit request #%d was approved", decided.RequestID),
		Body: fmt.Sprintf(
			"Good news! Your benefit request #%d was approved.\n",
			decided.RequestID),
		RequestID: decided.RequestID,
		Action:    decided.Action,
	}
}
