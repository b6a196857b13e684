package mail

import (
	"bytes"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

// Mailer dispatches the transactional emails the auth flows depend on.
// Delivery is fire-and-forget from the caller's perspective: a nil error only
// means the message was accepted by the SMTP server.
type Mailer interface {
	SendTwoFactorCode(email, code string) error
	SendVerificationLink(email, link string) error
}

var twoFactorTmpl = template.Must(template.New("two_factor").Parse(
	`<p>Your login code is <strong>{{.Code}}</strong>.</p>
<p>It expires in 5 minutes. If you did not try to sign in, ignore this email.</p>`))

var verificationTmpl = template.Must(template.New("verification").Parse(
	`<p>Confirm your email address by clicking the link below:</p>
<p><a href="{{.Link}}">{{.Link}}</a></p>`))

// Sender sends mail over SMTP via gomail.
type Sender struct {
	dialer *gomail.Dialer
	from   string
}

var _ Mailer = (*Sender)(nil)

// NewSender creates an SMTP-backed mailer.
func NewSender(host string, port int, username, password, from string) *Sender {
	return &Sender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// SendTwoFactorCode emails a one-time login code.
func (s *Sender) SendTwoFactorCode(email, code string) error {
	body, err := render(twoFactorTmpl, map[string]string{"Code": code})
	if err != nil {
		return err
	}
	return s.send(email, "Your login code", body)
}

// SendVerificationLink emails an address-confirmation link.
func (s *Sender) SendVerificationLink(email, link string) error {
	body, err := render(verificationTmpl, map[string]string{"Link": link})
	if err != nil {
		return err
	}
	return s.send(email, "Confirm your email", body)
}

func (s *Sender) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	return s.dialer.DialAndSend(m)
}

func render(t *template.Template, data interface{}) (string, error) {
	buf := new(bytes.Buffer)
	if err := t.Execute(buf, data); err != nil {
		return "", fmt.Errorf("render email template: %w", err)
	}
	return buf.String(), nil
}
