// Package mailer sends reservation emails over SMTP.  Delivery is
// wrapped in a circuit breaker so a dead SMTP server does not stall the
// event consumer with repeated connection timeouts.
package mailer

import (
	"os"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	gomail "gopkg.in/gomail.v2"

	"github.com/iliyamo/cottage-reservation/internal/logger"
)

// Mailer dials the SMTP server configured through SMTP_HOST, SMTP_PORT,
// SMTP_USERNAME, SMTP_PASSWORD and FROM_EMAIL.  When SMTP_HOST is empty
// the mailer is disabled and Send becomes a no-op.
type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
	cb   *gobreaker.CircuitBreaker
}

func New() *Mailer {
	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		port = p
	}
	return &Mailer{
		host: os.Getenv("SMTP_HOST"),
		port: port,
		user: os.Getenv("SMTP_USERNAME"),
		pass: os.Getenv("SMTP_PASSWORD"),
		from: os.Getenv("FROM_EMAIL"),
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "smtp",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 2
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.L().Warnf("circuit breaker %q changed from %s to %s", name, from, to)
			},
		}),
	}
}

// Enabled reports whether SMTP delivery is configured.
func (m *Mailer) Enabled() bool { return m.host != "" }

// Send delivers a plain-text email.  Errors pass through the circuit
// breaker so consecutive failures open it and later sends fail fast.
func (m *Mailer) Send(to, subject, body string) error {
	if !m.Enabled() {
		return nil
	}
	_, err := m.cb.Execute(func() (interface{}, error) {
		msg := gomail.NewMessage()
		msg.SetHeader("From", m.from)
		msg.SetHeader("To", to)
		msg.SetHeader("Subject", subject)
		msg.SetBody("text/plain", body)

		dialer := gomail.NewDialer(m.host, m.port, m.user, m.pass)
		return nil, dialer.DialAndSend(msg)
	})
	return err
}
