package notify

import (
	"log/slog"
	"net/smtp"
)

// NewWithSend builds a mailer whose SMTP delivery is routed through send.
func NewWithSend(cfg Config, send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error, logger *slog.Logger) System {
	return &mailer{cfg: cfg, send: send, logger: logger.With("system", "notify")}
}
