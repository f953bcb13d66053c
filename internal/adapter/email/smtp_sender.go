package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"strings"

	"github.com/shaymaabd/AMPA/internal/app/config"
	"github.com/shaymaabd/AMPA/internal/domain/entity"
	"github.com/shaymaabd/AMPA/internal/platform/logger"
	"github.com/shaymaabd/AMPA/internal/repository"
	"gopkg.in/gomail.v2"
)

type sendDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpSender struct {
	cfg config.SMTPConfig
	log logger.Logger
	d   sendDialer
}

func NewSMTPSender(cfg config.SMTPConfig, log logger.Logger) (repository.Mailer, error) {
	if cfg.Host == "" || cfg.Port == 0 || cfg.SenderEmail == "" {
		return nil, fmt.Errorf("SMTP host, port, and sender email must be configured")
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)

	serverName := cfg.ServerName
	if serverName == "" {
		serverName = cfg.Host
	}
	switch strings.ToLower(cfg.Encryption) {
	case "ssl":
		dialer.SSL = true
		dialer.TLSConfig = &tls.Config{ServerName: serverName, MinVersion: tls.VersionTLS12}
	case "tls", "starttls":
		dialer.TLSConfig = &tls.Config{ServerName: serverName, MinVersion: tls.VersionTLS12}
	}

	return &smtpSender{cfg: cfg, log: log, d: dialer}, nil
}

func (s *smtpSender) buildMessage(msg *entity.Email) (*gomail.Message, error) {
	if msg == nil || strings.TrimSpace(msg.To) == "" {
		return nil, fmt.Errorf("no recipient provided for email")
	}
	if msg.Body == "" {
		return nil, fmt.Errorf("email body must be provided")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.SenderEmail)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	if a := msg.Attachment; a != nil && len(a.Data) > 0 {
		data := a.Data
		m.Attach(a.FileName,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
		)
	}
	return m, nil
}

func (s *smtpSender) Send(ctx context.Context, msg *entity.Email) error {
	m, err := s.buildMessage(msg)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- s.d.DialAndSend(m)
	}()

	select {
	case <-ctx.Done():
		s.log.Warnf("Email sending to %s (subject: %s) cancelled or timed out by context: %v", msg.To, msg.Subject, ctx.Err())
		return fmt.Errorf("email sending cancelled or timed out: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			s.log.Errorf("Failed to send email to %s, subject '%s': %v", msg.To, msg.Subject, err)
			return fmt.Errorf("failed to send email: %w", err)
		}
	}

	s.log.Infof("Email sent successfully to %s, subject: %s", msg.To, msg.Subject)
	return nil
}
