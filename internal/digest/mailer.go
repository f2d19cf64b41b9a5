package digest

import (
	"io"

	"satis-takip-backend/internal/config"
	"satis-takip-backend/internal/report"

	"gopkg.in/gomail.v2"
)

// Mailer: Teslimat katmanı digest için opak bir işbirlikçidir;
// hata raporlanır, burada retry yapılmaz.
type Mailer interface {
	Send(to []string, subject, body string, attachment []byte, filename string) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.MailFrom,
	}
}

func (m *SMTPMailer) Send(to []string, subject, body string, attachment []byte, filename string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if attachment != nil {
		msg.Attach(filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(attachment)
			return err
		}))
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		return &report.DeliveryError{Msg: "E-posta gönderilemedi", Err: err}
	}
	return nil
}
