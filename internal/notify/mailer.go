// Package notify sends the owner an email when a project is added.
// Delivery is fire-and-forget: a failed send is logged and forgotten, it
// never affects the write that triggered it.
package notify

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/takdev/portfolio-backend/internal/projects/domain"
)

type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       string

	// send is swappable for tests
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailer(host string, port int, username, password, from, to string) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		to:       to,
		send:     smtp.SendMail,
	}
}

// ProjectAdded dispatches the notification in the background.
func (m *Mailer) ProjectAdded(p domain.Project) {
	go func() {
		if err := m.deliver(p); err != nil {
			log.Printf("[notify] email for %s failed: %v", p.ID, err)
			return
		}
		log.Printf("[notify] email sent for %s", p.ID)
	}()
}

func (m *Mailer) deliver(p domain.Project) error {
	subject := "New Project Added: " + p.Title
	body := fmt.Sprintf(
		"New Project: %s\n\nDescription: %s\n\nLive: %s\nGithub: %s\n\nTechnologies: %s\n\nProject ID: %s\nCreated: %s\n",
		p.Title, p.Description,
		orNA(p.LiveURL), orNA(p.GithubURL),
		orNA(strings.Join(p.Technologies, ", ")),
		p.ID, p.CreatedAt.Format("2006-01-02 15:04:05 MST"),
	)

	msg := []byte("From: " + m.from + "\r\n" +
		"To: " + m.to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" + body)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	return m.send(addr, auth, m.from, []string{m.to}, msg)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
