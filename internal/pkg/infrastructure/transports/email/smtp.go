package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/diwise/iot-machine-alerts/internal/pkg/application/notifications"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/logging"
)

var ErrInvalidHeader = errors.New("invalid mail header")

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (c Config) Configured() bool {
	return c.Host != "" && c.From != ""
}

type smtpTransport struct {
	cfg    Config
	dialer net.Dialer
	now    func() time.Time
}

func NewSMTPTransport(cfg Config) notifications.Transport {
	if cfg.Port == 0 {
		cfg.Port = 587
	}

	return &smtpTransport{
		cfg:    cfg,
		dialer: net.Dialer{Timeout: 10 * time.Second},
		now:    time.Now,
	}
}

func (t *smtpTransport) Name() string {
	return "smtp"
}

func (t *smtpTransport) Configured() bool {
	return t.cfg.Configured()
}

func (t *smtpTransport) Send(ctx context.Context, to string, msg notifications.Message) error {
	from, err := sanitizeHeader("from", t.cfg.From)
	if err != nil {
		return err
	}
	to, err = sanitizeHeader("to", to)
	if err != nil {
		return err
	}
	subject, err := sanitizeHeader("subject", msg.Subject)
	if err != nil {
		return err
	}

	body, contentType, err := t.compose(msg)
	if err != nil {
		return err
	}

	var raw bytes.Buffer
	fmt.Fprintf(&raw, "From: %s\r\n", from)
	fmt.Fprintf(&raw, "To: %s\r\n", to)
	fmt.Fprintf(&raw, "Subject: %s\r\n", subject)
	fmt.Fprintf(&raw, "Date: %s\r\n", t.now().Format(time.RFC1123Z))
	raw.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&raw, "Content-Type: %s\r\n\r\n", contentType)
	raw.Write(body)

	if err = t.deliver(ctx, from, to, raw.Bytes()); err != nil {
		return err
	}

	log := logging.GetFromContext(ctx)
	log.Debug().Str("to", to).Str("subject", subject).Msg("email sent")

	return nil
}

func (t *smtpTransport) compose(msg notifications.Message) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	parts := []struct {
		contentType string
		body        string
	}{
		{"text/plain; charset=UTF-8", msg.Text},
		{"text/html; charset=UTF-8", msg.HTML},
	}

	for _, p := range parts {
		if p.body == "" {
			continue
		}

		pw, err := w.CreatePart(textproto.MIMEHeader{"Content-Type": {p.contentType}})
		if err != nil {
			return nil, "", err
		}
		if _, err = pw.Write([]byte(p.body)); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), "multipart/alternative; boundary=" + w.Boundary(), nil
}

func (t *smtpTransport) deliver(ctx context.Context, from, to string, msg []byte) error {
	addr := net.JoinHostPort(t.cfg.Host, strconv.Itoa(t.cfg.Port))

	conn, err := t.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, t.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake failed: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err = c.StartTLS(&tls.Config{ServerName: t.cfg.Host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("starttls failed: %w", err)
		}
	}

	if t.cfg.Username != "" && t.cfg.Password != "" {
		if err = c.Auth(smtp.PlainAuth("", t.cfg.Username, t.cfg.Password, t.cfg.Host)); err != nil {
			return fmt.Errorf("smtp auth failed: %w", err)
		}
	}

	if err = c.Mail(from); err != nil {
		return err
	}
	if err = c.Rcpt(to); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	if err = w.Close(); err != nil {
		return err
	}

	return c.Quit()
}

func sanitizeHeader(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if strings.ContainsAny(trimmed, "\r\n") {
		return "", fmt.Errorf("%w: %s contains newline characters", ErrInvalidHeader, field)
	}
	if trimmed == "" && field != "subject" {
		return "", fmt.Errorf("%w: %s is empty", ErrInvalidHeader, field)
	}
	return trimmed, nil
}
