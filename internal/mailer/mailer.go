package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/bruninhodeville-wq/atelie-vanda-araujo/internal/config"
)

// Mailer sends the password-reset message through the configured SMTP relay.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *Mailer) SendResetCode(to, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Recuperação de Senha - Ateliê Vanda")
	msg.SetBody("text/plain", fmt.Sprintf("Seu código de verificação é: %s", code))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mailer: failed to send reset code to %s: %w", to, err)
	}
	return nil
}
