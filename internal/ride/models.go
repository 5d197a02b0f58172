package ride

import (
	"errors"
	"time"
)

const DateLayout = "2006-01-02"

var (
	ErrNotFound     = errors.New("ride not found")
	ErrNameRequired = errors.New("ride name required")
	ErrInvalidDate  = errors.New("ride date must be YYYY-MM-DD")
)

// Ride dates are calendar dates without a zone and travel as YYYY-MM-DD.
type Ride struct {
	ID           int64     `json:"id"`
	Name         string    `json:"ride_name"`
	Date         string    `json:"ride_date"`
	StartTime    string    `json:"start_time"`
	MeetingPoint string    `json:"meeting_point"`
	RouteLink    string    `json:"route_link"`
	CreatedAt    time.Time `json:"created_at"`
}

// Label is the short form used in pickers and e-mail subjects.
func (r Ride) Label() string {
	return r.Name + " (" + r.Date + ")"
}
