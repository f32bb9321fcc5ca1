package email

import (
	"context"
	"fmt"

	"github.com/johnquangdev/meeting-automation/internal/domain/entities"
	"github.com/johnquangdev/meeting-automation/internal/infrastructure/integration/mailer"
	"github.com/johnquangdev/meeting-automation/pkg/config"
)

// Sender delivers minutes of meeting as HTML email over SMTP
type Sender struct {
	cfg  *config.EmailConfig
	send func(host string, port int, username, password, from string, to []string, msg []byte) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.EmailConfig) *Sender {
	return &Sender{
		cfg:  cfg,
		send: mailer.SendSSL,
	}
}

// SendMinutes renders the minutes document and emails it to the recipients
func (s *Sender) SendMinutes(ctx context.Context, to []string, doc entities.MinutesDocument) error {
	if !s.cfg.Enabled() {
		return fmt.Errorf("email integration not configured")
	}
	if len(to) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	title := doc.Title
	if title == "" {
		title = "Untitled Meeting"
	}
	subject := "Minutes of Meeting: " + title

	from := s.cfg.From
	if from == "" {
		from = s.cfg.Username
	}

	msg := buildMessage(s.cfg.SenderName, from, to, subject, BuildMinutesHTML(doc))

	if err := s.send(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password, from, to, msg); err != nil {
		return fmt.Errorf("send minutes email: %w", err)
	}
	return nil
}
