package signup

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strings"

	"backend-teamugly/internal/db"
	"backend-teamugly/internal/mailer"
	"backend-teamugly/internal/ride"
	"backend-teamugly/internal/stream"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const foreignKeyViolation = "23503"

type RideLookup interface {
	GetRide(ctx context.Context, id int64) (ride.Ride, error)
}

// Options carries the presentation settings that end up in e-mails.
type Options struct {
	AppTitle string
	AppURL   string
	Timezone string
}

type Service struct {
	db     db.Querier
	rides  RideLookup
	mail   mailer.Sender
	events stream.Publisher
	opts   Options
}

var newToken = uuid.NewString

func NewService(db db.Querier, rides RideLookup, mail mailer.Sender, events stream.Publisher, opts Options) *Service {
	return &Service{db: db, rides: rides, mail: mail, events: events, opts: opts}
}

// Signup records an active RSVP and tries once to send the confirmation.
// A failed send still returns the stored signup with EmailSent false.
func (s *Service) Signup(ctx context.Context, rideID int64, in Input) (Result, error) {
	if err := Validate(in); err != nil {
		return Result{}, err
	}
	in = in.normalized()

	r, err := s.rides.GetRide(ctx, rideID)
	if err != nil {
		return Result{}, err
	}

	su := Signup{
		RideID:       r.ID,
		FullName:     in.FullName,
		Email:        in.Email,
		Phone:        in.Phone,
		City:         in.City,
		Notes:        in.Notes,
		Acknowledged: bool(in.Acknowledged),
		CancelToken:  newToken(),
		Status:       StatusActive,
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO signups (ride_id, full_name, email, phone, city, notes, acknowledged, cancel_token, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at
	`, su.RideID, su.FullName, su.Email, su.Phone, su.City, su.Notes, su.Acknowledged, su.CancelToken, su.Status)
	if err := row.Scan(&su.ID, &su.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return Result{}, ride.ErrNotFound
		}
		return Result{}, err
	}

	res := Result{Signup: su, CancelLink: CancelLink(s.opts.AppURL, su.CancelToken)}
	s.publish(stream.EventSignupCreated, su.RideID)

	if s.mail != nil {
		err := s.mail.Send(ctx, mailer.Confirmation{
			To:           su.Email,
			FullName:     su.FullName,
			AppTitle:     s.opts.AppTitle,
			RideName:     r.Name,
			RideDate:     r.Date,
			StartTime:    r.StartTime,
			MeetingPoint: r.MeetingPoint,
			RouteLink:    r.RouteLink,
			CancelLink:   res.CancelLink,
			Timezone:     s.opts.Timezone,
		})
		if err != nil {
			log.Printf("confirmation email for signup %d not sent: %v", su.ID, err)
		} else {
			res.EmailSent = true
		}
	}
	return res, nil
}

// Cancel moves an active signup to cancelled. It reports false, without an
// error, when the token is unknown or was already used.
func (s *Service) Cancel(ctx context.Context, token string) (bool, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return false, ErrTokenRequired
	}

	var rideID int64
	err := s.db.QueryRow(ctx, `
		UPDATE signups
		SET status = 'cancelled', cancelled_at = now()
		WHERE cancel_token = $1 AND status = 'active'
		RETURNING ride_id
	`, token).Scan(&rideID)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	s.publish(stream.EventSignupCancelled, rideID)
	return true, nil
}

// PublicRoster lists who is riding, without contact details.
func (s *Service) PublicRoster(ctx context.Context) ([]PublicEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT r.ride_name, r.ride_date::text, s.full_name
		FROM signups s
		JOIN rides r ON r.id = s.ride_id
		WHERE s.status = 'active'
		ORDER BY r.ride_date, r.id, s.created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []PublicEntry{}
	for rows.Next() {
		var e PublicEntry
		if err := rows.Scan(&e.RideName, &e.RideDate, &e.FullName); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CancelLink builds the e-mailed self-service link, <base>?cancel=<token>.
func CancelLink(baseURL, token string) string {
	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
	}
	return baseURL + sep + "cancel=" + url.QueryEscape(token)
}

func (s *Service) publish(kind string, rideID int64) {
	if s.events == nil {
		return
	}
	s.events.Publish(stream.Event{Type: kind, RideID: rideID})
}
