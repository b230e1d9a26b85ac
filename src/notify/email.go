package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"

	"stock-digest/src/helpers"
	"stock-digest/src/logger"
	"stock-digest/src/models"
)

// -----------------------------------------------------------------------------

// EmailNotifier delivers reports over SMTP. Port 465 uses implicit TLS;
// anything else goes through smtp.SendMail (STARTTLS when offered).
type EmailNotifier struct {
	cfg    models.MEmailConfig
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

func NewEmailNotifier(cfg models.MEmailConfig) *EmailNotifier {
	return &EmailNotifier{
		cfg:    cfg,
		Logger: logger.NewLogger("EmailNotifier"),
	}
}

// -----------------------------------------------------------------------------

func (e *EmailNotifier) Name() string {
	return "smtp"
}

// -----------------------------------------------------------------------------

// Send delivers the HTML body. The context is honored up front; net/smtp has
// no per-call cancellation, so an in-flight send runs to completion.
func (e *EmailNotifier) Send(ctx context.Context, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		e.cfg.User, e.cfg.To, subject, htmlBody)

	addr := fmt.Sprintf("%s:%d", e.cfg.SMTPHost, e.cfg.SMTPPort)

	var auth smtp.Auth
	if e.cfg.User != "" && e.cfg.Pass != "" {
		auth = smtp.PlainAuth("", e.cfg.User, e.cfg.Pass, e.cfg.SMTPHost)
	}

	var err error
	if e.cfg.SMTPPort == 465 || e.cfg.SMTPSecure {
		err = e.sendWithTLS(addr, auth, msg)
	} else {
		err = smtp.SendMail(addr, auth, e.cfg.User, []string{e.cfg.To}, []byte(msg))
	}

	if err != nil {
		return helpers.NewDeliveryError(err)
	}

	e.Logger.Info("Email sent successfully to %s", e.cfg.To)
	return nil
}

// -----------------------------------------------------------------------------

// sendWithTLS sends email using implicit TLS (port 465).
func (e *EmailNotifier) sendWithTLS(addr string, auth smtp.Auth, msg string) error {
	tlsConfig := &tls.Config{
		ServerName: e.cfg.SMTPHost,
	}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("TLS dial failed: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, e.cfg.SMTPHost)
	if err != nil {
		return fmt.Errorf("creating SMTP client: %w", err)
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP auth failed: %w", err)
		}
	}

	if err := client.Mail(e.cfg.User); err != nil {
		return err
	}
	if err := client.Rcpt(e.cfg.To); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return client.Quit()
}
