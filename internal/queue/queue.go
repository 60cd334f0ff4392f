// Package queue connects the HTTP service to the ingestion worker over NATS.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/switchyard-io/switchyard/pkg/resilience"
)

// IngestJob is the wire payload published for each document awaiting
// pipeline processing.
type IngestJob struct {
	DocumentID uuid.UUID `json:"document_id"`
}

// Queue publishes and consumes ingestion jobs on a single subject with a
// shared queue group, so multiple workers split the load.
type Queue struct {
	conn    *nats.Conn
	subject string
	group   string
	exec    *resilience.Executor
	logger  *slog.Logger
}

// New connects to NATS and returns a Queue bound to the configured subject.
func New(cfg Config, exec *resilience.Executor, logger *slog.Logger) (*Queue, error) {
	log := logger.With("system", "queue")

	conn, err := nats.Connect(
		cfg.URL,
		nats.Name("switchyard"),
		nats.Timeout(cfg.ConnectTimeoutDuration()),
		nats.ReconnectWait(cfg.ReconnectWaitDuration()),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	return &Queue{
		conn:    conn,
		subject: cfg.Subject,
		group:   cfg.Group,
		exec:    exec,
		logger:  log,
	}, nil
}

// Close closes the underlying connection.
func (q *Queue) Close() {
	if q.conn != nil {
		q.conn.Close()
	}
}

// PublishIngest enqueues a document for pipeline processing.
func (q *Queue) PublishIngest(ctx context.Context, documentID uuid.UUID) error {
	payload, err := json.Marshal(IngestJob{DocumentID: documentID})
	if err != nil {
		return fmt.Errorf("encode ingest job: %w", err)
	}

	publish := func(_ context.Context) error {
		if err := q.conn.Publish(q.subject, payload); err != nil {
			return fmt.Errorf("publish %s: %w", q.subject, err)
		}
		return nil
	}

	if q.exec != nil {
		return q.exec.Execute(ctx, "queue-publish", publish, ClassifyError)
	}
	return publish(ctx)
}

// SubscribeIngest consumes ingest jobs until ctx is canceled, then drains
// the subscription so in-flight deliveries finish before shutdown.
func (q *Queue) SubscribeIngest(ctx context.Context, handler func(context.Context, IngestJob) error) error {
	sub, err := q.conn.QueueSubscribe(q.subject, q.group, func(msg *nats.Msg) {
		if ctx.Err() != nil {
			return
		}

		var job IngestJob
		if err := json.Unmarshal(msg.Data, &job); err != nil {
			q.logger.Error("dropping malformed ingest job", "error", err)
			return
		}

		if err := handler(ctx, job); err != nil {
			q.logger.ErrorContext(ctx, "ingest job failed", "document_id", job.DocumentID, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", q.subject, err)
	}

	if err := q.conn.Flush(); err != nil {
		return fmt.Errorf("flush subscription: %w", err)
	}

	q.logger.Info("consuming ingest jobs", "subject", q.subject, "group", q.group)

	<-ctx.Done()

	if err := sub.Drain(); err != nil {
		return fmt.Errorf("drain subscription: %w", err)
	}
	if err := q.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("flush after drain: %w", err)
	}
	return nil
}
