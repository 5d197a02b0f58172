package signup

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
)

var (
	ErrNameRequired            = errors.New("full name required")
	ErrInvalidEmail            = errors.New("invalid email")
	ErrAcknowledgementRequired = errors.New("acknowledgement required")
	ErrTokenRequired           = errors.New("cancellation token required")
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type Signup struct {
	ID           int64     `json:"id"`
	RideID       int64     `json:"ride_id"`
	CreatedAt    time.Time `json:"created_at"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	City         string    `json:"city"`
	Notes        string    `json:"notes"`
	Acknowledged bool      `json:"acknowledged"`
	CancelToken  string    `json:"-"`
	Status       string    `json:"status"`
}

// Input is the RSVP form.
type Input struct {
	FullName     string   `json:"full_name" form:"full_name"`
	Email        string   `json:"email" form:"email"`
	Phone        string   `json:"phone" form:"phone"`
	City         string   `json:"city" form:"city"`
	Notes        string   `json:"notes" form:"notes"`
	Acknowledged Checkbox `json:"acknowledged" form:"acknowledged"`
}

// Checkbox decodes JSON booleans as well as the "on" an HTML form posts for
// a ticked box. An unticked box is simply absent.
type Checkbox bool

func (c *Checkbox) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "on", "true", "1", "yes":
		*c = true
	case "", "off", "false", "0", "no":
		*c = false
	default:
		return fmt.Errorf("invalid checkbox value %q", text)
	}
	return nil
}

func (c *Checkbox) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*c = Checkbox(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return c.UnmarshalText([]byte(s))
}

type Result struct {
	Signup     Signup
	CancelLink string
	EmailSent  bool
}

// PublicEntry is the participant-facing roster line.
type PublicEntry struct {
	RideName string `json:"ride_name"`
	RideDate string `json:"ride_date"`
	FullName string `json:"full_name"`
}

// Validate checks the form before anything is written.
func Validate(in Input) error {
	if strings.TrimSpace(in.FullName) == "" {
		return ErrNameRequired
	}
	if !emailPattern.MatchString(strings.TrimSpace(in.Email)) {
		return ErrInvalidEmail
	}
	if !in.Acknowledged {
		return ErrAcknowledgementRequired
	}
	return nil
}

func (in Input) normalized() Input {
	return Input{
		FullName:     strings.TrimSpace(in.FullName),
		Email:        strings.TrimSpace(in.Email),
		Phone:        strings.TrimSpace(in.Phone),
		City:         strings.TrimSpace(in.City),
		Notes:        strings.TrimSpace(in.Notes),
		Acknowledged: in.Acknowledged,
	}
}
