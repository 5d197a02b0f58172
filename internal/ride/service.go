package ride

import (
	"context"
	"errors"
	"strings"
	"time"

	"backend-teamugly/internal/db"
	"backend-teamugly/internal/stream"

	"github.com/jackc/pgx/v5"
)

type Service struct {
	db     db.Querier
	events stream.Publisher
}

func NewService(db db.Querier, events stream.Publisher) *Service {
	return &Service{db: db, events: events}
}

func (s *Service) CreateRide(ctx context.Context, input Ride) (Ride, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Date = strings.TrimSpace(input.Date)
	if input.Name == "" {
		return Ride{}, ErrNameRequired
	}
	if _, err := time.Parse(DateLayout, input.Date); err != nil {
		return Ride{}, ErrInvalidDate
	}
	input.StartTime = strings.TrimSpace(input.StartTime)
	input.MeetingPoint = strings.TrimSpace(input.MeetingPoint)
	input.RouteLink = strings.TrimSpace(input.RouteLink)

	row := s.db.QueryRow(ctx, `
		INSERT INTO rides (ride_name, ride_date, start_time, meeting_point, route_link)
		VALUES ($1, $2::date, $3, $4, $5)
		RETURNING id, created_at
	`, input.Name, input.Date, input.StartTime, input.MeetingPoint, input.RouteLink)
	if err := row.Scan(&input.ID, &input.CreatedAt); err != nil {
		return Ride{}, err
	}

	s.publish(stream.EventRideCreated, input.ID)
	return input, nil
}

func (s *Service) ListRides(ctx context.Context) ([]Ride, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, ride_name, ride_date::text, start_time, meeting_point, route_link, created_at
		FROM rides
		ORDER BY ride_date, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rides := []Ride{}
	for rows.Next() {
		var r Ride
		if err := rows.Scan(&r.ID, &r.Name, &r.Date, &r.StartTime, &r.MeetingPoint, &r.RouteLink, &r.CreatedAt); err != nil {
			return nil, err
		}
		rides = append(rides, r)
	}
	return rides, rows.Err()
}

func (s *Service) GetRide(ctx context.Context, id int64) (Ride, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, ride_name, ride_date::text, start_time, meeting_point, route_link, created_at
		FROM rides WHERE id = $1
	`, id)

	var r Ride
	if err := row.Scan(&r.ID, &r.Name, &r.Date, &r.StartTime, &r.MeetingPoint, &r.RouteLink, &r.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Ride{}, ErrNotFound
		}
		return Ride{}, err
	}
	return r, nil
}

// DeleteRide removes the ride and its signups in one transaction.
func (s *Service) DeleteRide(ctx context.Context, id int64) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM signups WHERE ride_id = $1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM rides WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	committed = true

	s.publish(stream.EventRideDeleted, id)
	return nil
}

func (s *Service) publish(kind string, id int64) {
	if s.events == nil {
		return
	}
	s.events.Publish(stream.Event{Type: kind, RideID: id})
}
