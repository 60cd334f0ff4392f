// Package notify sends routing notices to department mailboxes over SMTP.
// Notice delivery is best-effort: the pipeline logs failures and moves on.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// RoutingNotice describes a document routed to one department.
type RoutingNotice struct {
	DocumentID uuid.UUID
	Filename   string
	Code       string
	Department string
	Score      float64
	Summary    string
}

// System defines the public contract for routing notifications.
type System interface {
	SendRoutingNotice(ctx context.Context, notice RoutingNotice) error
}

type sendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

type mailer struct {
	cfg    Config
	send   sendFunc
	logger *slog.Logger
}

// New creates a mailer from a finalized config. When no host is configured
// the returned System is a no-op that logs skipped notices at debug level.
func New(cfg Config, logger *slog.Logger) System {
	log := logger.With("system", "notify")

	if !cfg.Enabled() {
		log.Debug("notifications disabled, no smtp host configured")
		return &disabled{logger: log}
	}

	return &mailer{cfg: cfg, send: smtp.SendMail, logger: log}
}

func (m *mailer) SendRoutingNotice(ctx context.Context, notice RoutingNotice) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	to := m.cfg.Recipients[notice.Code]
	if len(to) == 0 {
		m.logger.DebugContext(ctx, "no recipients configured", "department", notice.Code)
		return nil
	}

	msg, err := buildMessage(m.cfg.From, to, notice)
	if err != nil {
		return fmt.Errorf("build routing notice: %w", err)
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	if err := m.send(addr, auth, m.cfg.From, to, msg); err != nil {
		return fmt.Errorf("send routing notice: %w", err)
	}

	m.logger.InfoContext(ctx, "routing notice sent",
		"document_id", notice.DocumentID,
		"department", notice.Code,
		"recipients", len(to),
	)
	return nil
}

func buildMessage(from string, to []string, notice RoutingNotice) ([]byte, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(part, "Document %q was routed to %s (score %.2f).\r\n", notice.Filename, notice.Department, notice.Score)
	fmt.Fprintf(part, "Document ID: %s\r\n\r\n", notice.DocumentID)
	if notice.Summary != "" {
		fmt.Fprintf(part, "Summary:\r\n%s\r\n", notice.Summary)
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&msg, "Subject: Document routed to %s: %s\r\n", notice.Department, notice.Filename)
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/mixed; boundary=%s\r\n", w.Boundary())
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	return msg.Bytes(), nil
}

type disabled struct {
	logger *slog.Logger
}

func (d *disabled) SendRoutingNotice(ctx context.Context, notice RoutingNotice) error {
	d.logger.DebugContext(ctx, "notifications disabled, skipping routing notice",
		"document_id", notice.DocumentID,
		"department", notice.Code,
	)
	return nil
}
