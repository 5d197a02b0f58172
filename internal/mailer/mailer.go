package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"backend-teamugly/internal/config"

	"github.com/wneessen/go-mail"
)

var ErrNotConfigured = errors.New("smtp not configured")

// Confirmation is everything an RSVP confirmation needs to say.
type Confirmation struct {
	To           string
	FullName     string
	AppTitle     string
	RideName     string
	RideDate     string
	StartTime    string
	MeetingPoint string
	RouteLink    string
	CancelLink   string
	Timezone     string
}

type Sender interface {
	Send(ctx context.Context, c Confirmation) error
}

// New returns an SMTP sender, or one that always reports ErrNotConfigured
// when no host is set.
func New(cfg config.Config) Sender {
	if cfg.SMTPHost == "" {
		return disabled{}
	}
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUsername
	}
	return &SMTP{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     from,
		Timeout:  10 * time.Second,
	}
}

type disabled struct{}

func (disabled) Send(context.Context, Confirmation) error { return ErrNotConfigured }

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

func (s *SMTP) Send(ctx context.Context, c Confirmation) error {
	if s.From == "" {
		return ErrNotConfigured
	}

	msg := mail.NewMsg()
	if err := msg.From(s.From); err != nil {
		return fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(c.To); err != nil {
		return fmt.Errorf("to address: %w", err)
	}
	subject, body := Compose(c)
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(s.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(s.Timeout),
	}
	if s.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.Username),
			mail.WithPassword(s.Password),
		)
	}

	client, err := mail.NewClient(s.Host, opts...)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}

// Compose renders the plain-text confirmation.
func Compose(c Confirmation) (string, string) {
	subject := fmt.Sprintf("RSVP confirmed: %s (%s)", c.RideName, c.RideDate)

	var b strings.Builder
	name := strings.TrimSpace(c.FullName)
	if name == "" {
		name = "rider"
	}
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	if c.AppTitle != "" {
		fmt.Fprintf(&b, "Thanks for signing up with %s. You're on the list for:\n\n", c.AppTitle)
	} else {
		b.WriteString("Thanks for signing up. You're on the list for:\n\n")
	}
	fmt.Fprintf(&b, "  Ride:          %s\n", c.RideName)
	fmt.Fprintf(&b, "  Date:          %s\n", c.RideDate)
	if c.StartTime != "" {
		if c.Timezone != "" {
			fmt.Fprintf(&b, "  Time:          %s (%s)\n", c.StartTime, c.Timezone)
		} else {
			fmt.Fprintf(&b, "  Time:          %s\n", c.StartTime)
		}
	}
	if c.MeetingPoint != "" {
		fmt.Fprintf(&b, "  Meeting Point: %s\n", c.MeetingPoint)
	}
	if c.RouteLink != "" {
		fmt.Fprintf(&b, "  GPS Route:     %s\n", c.RouteLink)
	}
	fmt.Fprintf(&b, "\nCan't make it? Cancel your RSVP here:\n%s\n\nSee you out there!\n", c.CancelLink)
	return subject, b.String()
}
