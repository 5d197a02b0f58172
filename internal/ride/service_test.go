package ride

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"backend-teamugly/internal/stream"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
)

type recorder struct {
	mu     sync.Mutex
	events []stream.Event
}

func (r *recorder) Publish(ev stream.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

var rideColumns = []string{"id", "ride_name", "ride_date", "start_time", "meeting_point", "route_link", "created_at"}

func TestCreateAndGetRide(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	createdAt := time.Now()
	mock.ExpectQuery(`INSERT INTO rides`).
		WithArgs("Saturday Training Ride", "2026-05-02", "7:30 AM", "Bike shop", "").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), createdAt))

	events := &recorder{}
	svc := NewService(mock, events)
	ride, err := svc.CreateRide(context.Background(), Ride{
		Name:         "  Saturday Training Ride ",
		Date:         "2026-05-02",
		StartTime:    "7:30 AM",
		MeetingPoint: "Bike shop",
	})
	if err != nil {
		t.Fatalf("create ride: %v", err)
	}
	if ride.ID != 1 || ride.Name != "Saturday Training Ride" {
		t.Fatalf("unexpected ride %+v", ride)
	}
	if len(events.events) != 1 || events.events[0].Type != stream.EventRideCreated || events.events[0].RideID != 1 {
		t.Fatalf("expected ride.created event, got %+v", events.events)
	}

	mock.ExpectQuery(`SELECT id, ride_name, ride_date::text, start_time, meeting_point, route_link, created_at`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(rideColumns).
			AddRow(int64(1), ride.Name, ride.Date, ride.StartTime, ride.MeetingPoint, "", createdAt))

	loaded, err := svc.GetRide(context.Background(), 1)
	if err != nil {
		t.Fatalf("get ride: %v", err)
	}
	if loaded.ID != 1 || loaded.Date != "2026-05-02" {
		t.Fatalf("unexpected ride loaded")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateRideValidation(t *testing.T) {
	svc := NewService(nil, nil)

	if _, err := svc.CreateRide(context.Background(), Ride{Name: " ", Date: "2026-05-02"}); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected name required, got %v", err)
	}
	if _, err := svc.CreateRide(context.Background(), Ride{Name: "Long Ride", Date: "05/02/2026"}); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected invalid date, got %v", err)
	}
}

func TestGetRideNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`FROM rides WHERE id`).WithArgs(int64(9)).WillReturnError(pgx.ErrNoRows)

	if _, err := NewService(mock, nil).GetRide(context.Background(), 9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListRidesOrderedByDate(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM rides\s+ORDER BY ride_date, id`).
		WillReturnRows(pgxmock.NewRows(rideColumns).
			AddRow(int64(2), "Weeknight Ride", "2026-04-29", "6:00 PM", "Park", "", now).
			AddRow(int64(1), "Long Ride", "2026-05-02", "7:00 AM", "Shop", "https://ridewithgps.com/routes/1", now))

	rides, err := NewService(mock, nil).ListRides(context.Background())
	if err != nil {
		t.Fatalf("list rides: %v", err)
	}
	if len(rides) != 2 || rides[0].ID != 2 || rides[1].RouteLink == "" {
		t.Fatalf("unexpected rides %+v", rides)
	}
}

func TestListRidesEmpty(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`FROM rides`).WillReturnRows(pgxmock.NewRows(rideColumns))

	rides, err := NewService(mock, nil).ListRides(context.Background())
	if err != nil || rides == nil || len(rides) != 0 {
		t.Fatalf("expected empty non-nil list: %v", err)
	}
}

func TestDeleteRideRemovesSignupsFirst(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM signups WHERE ride_id`).WithArgs(int64(3)).WillReturnResult(pgxmock.NewResult("DELETE", 4))
	mock.ExpectExec(`DELETE FROM rides WHERE id`).WithArgs(int64(3)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	events := &recorder{}
	if err := NewService(mock, events).DeleteRide(context.Background(), 3); err != nil {
		t.Fatalf("delete ride: %v", err)
	}
	if len(events.events) != 1 || events.events[0].Type != stream.EventRideDeleted {
		t.Fatalf("expected ride.deleted event")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteRideNotFoundRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM signups WHERE ride_id`).WithArgs(int64(3)).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`DELETE FROM rides WHERE id`).WithArgs(int64(3)).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectRollback()

	events := &recorder{}
	if err := NewService(mock, events).DeleteRide(context.Background(), 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(events.events) != 0 {
		t.Fatalf("expected no event for missing ride")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteRideSignupError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM signups`).WithArgs(int64(3)).WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	if err := NewService(mock, nil).DeleteRide(context.Background(), 3); err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRideLabel(t *testing.T) {
	r := Ride{Name: "Long Ride", Date: "2026-05-02"}
	if r.Label() != "Long Ride (2026-05-02)" {
		t.Fatalf("unexpected label %q", r.Label())
	}
}
