// Package email delivers notification messages over SMTP. Failures never
// escape the Send boundary: every outcome is reported as a result value.
package email

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/clinicsuite/clinic-portal/internal/core/ports"
)

// Config captures the SMTP transport settings.
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
}

// Configured reports whether the transport has enough settings to attempt
// delivery.
func (c Config) Configured() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

// SMTPSender implements ports.EmailSender over stdlib net/smtp.
type SMTPSender struct {
	cfg Config
	log zerolog.Logger
}

func NewSMTPSender(cfg Config, log zerolog.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, log: log}
}

// Send delivers msg. When SMTP is not configured the message body is logged
// instead so local development still surfaces the links, and the result
// reports Sent: false.
func (s *SMTPSender) Send(ctx context.Context, msg ports.EmailMessage) ports.EmailResult {
	if !s.cfg.Configured() {
		s.log.Info().
			Str("to", msg.To).
			Str("subject", msg.Subject).
			Str("body", msg.TextBody).
			Msg("smtp not configured, logging message instead")
		return ports.EmailResult{Sent: false, Err: fmt.Errorf("smtp transport not configured")}
	}

	if err := ctx.Err(); err != nil {
		return ports.EmailResult{Sent: false, Err: err}
	}

	messageID := newMessageID(s.cfg.Host)
	addr := s.cfg.Host + ":" + s.cfg.Port
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	if err := smtp.SendMail(addr, auth, msg.From, []string{msg.To}, buildMIME(msg, messageID)); err != nil {
		s.log.Warn().Err(err).Str("to", msg.To).Msg("smtp delivery failed")
		return ports.EmailResult{Sent: false, Err: err}
	}

	return ports.EmailResult{Sent: true, MessageID: messageID}
}

// buildMIME renders a multipart/alternative body carrying both the text and
// HTML variants of the message.
func buildMIME(msg ports.EmailMessage, messageID string) []byte {
	const boundary = "clinic-portal-alt"

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", msg.From)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&b, "Message-ID: %s\r\n", messageID)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.TextBody)
	b.WriteString("\r\n")

	if msg.HTMLBody != "" {
		fmt.Fprintf(&b, "--%s\r\n", boundary)
		b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
		b.WriteString(msg.HTMLBody)
		b.WriteString("\r\n")
	}

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}

func newMessageID(host string) string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("<%s@%s>", hex.EncodeToString(buf), host)
}
