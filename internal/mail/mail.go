// Package mail delivers transactional messages such as password reset links.
package mail

import (
	"io"
	"log"
)

type Mailer interface {
	Send(to, subject, body string) error
}

type logMailer struct {
	logger *log.Logger
}

// NewLogMailer writes messages to the logger instead of sending them. It is
// used when no SMTP host is configured, typically in local development.
func NewLogMailer(logger *log.Logger) Mailer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &logMailer{logger: logger}
}

func (m *logMailer) Send(to, subject, body string) error {
	m.logger.Printf("mail: to=%s subject=%q\n%s", to, subject, body)
	return nil
}
