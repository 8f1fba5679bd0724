// Package notify e-mails exported reports.
package notify

import (
	"errors"
	"fmt"
	"net/smtp"
	"path/filepath"
	"time"

	"github.com/Dan9191/bank-analytics/internal/config"
	"github.com/Dan9191/bank-analytics/internal/logging"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

var ErrNoRecipient = errors.New("no recipient")

// Sender handles sending emails via SMTP
type Sender struct {
	cfg  *config.Config
	log  logrus.FieldLogger
	now  func() time.Time
	send func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, log logrus.FieldLogger) *Sender {
	return &Sender{
		cfg: cfg,
		log: logging.Component(log, "notify"),
		now: time.Now,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// SendReport mails the report file at attachmentPath to the given address.
func (s *Sender) SendReport(to, category, attachmentPath string) error {
	if to == "" {
		return ErrNoRecipient
	}

	e, err := s.reportMessage(to, category, attachmentPath)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}

	if err := s.send(e, addr, auth); err != nil {
		s.log.WithError(err).Errorf("Failed to send report to %s", to)
		return fmt.Errorf("failed to send report: %w", err)
	}

	s.log.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

func (s *Sender) reportMessage(to, category, attachmentPath string) (*email.Email, error) {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Траты по категории «%s»", category)

	body := fmt.Sprintf(
		"Отчет о тратах по категории «%s» за последние три месяца сформирован %s.\n"+
			"Файл %s во вложении.\n",
		category, s.now().Format("2006-01-02 15:04:05"), filepath.Base(attachmentPath),
	)
	body += "\nBank Analytics"
	e.Text = []byte(body)

	if _, err := e.AttachFile(attachmentPath); err != nil {
		return nil, fmt.Errorf("failed to attach %s: %w", attachmentPath, err)
	}
	return e, nil
}
