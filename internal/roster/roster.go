package roster

import (
	"context"
	"io"
	"strings"
	"time"

	"backend-teamugly/internal/db"
)

const createdLayout = "2006-01-02T15:04:05Z"

// Header is written on every export, including locked and empty ones.
var Header = []string{
	"created_utc", "ride_name", "ride_date", "start_time", "meeting_point", "route_link",
	"full_name", "email", "phone", "city", "notes", "status",
}

type Row struct {
	CreatedAt    time.Time `json:"created_utc"`
	RideName     string    `json:"ride_name"`
	RideDate     string    `json:"ride_date"`
	StartTime    string    `json:"start_time"`
	MeetingPoint string    `json:"meeting_point"`
	RouteLink    string    `json:"route_link"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	City         string    `json:"city"`
	Notes        string    `json:"notes"`
	Status       string    `json:"status"`
}

func (r Row) fields() []string {
	return []string{
		r.CreatedAt.UTC().Format(createdLayout),
		r.RideName, r.RideDate, r.StartTime, r.MeetingPoint, r.RouteLink,
		r.FullName, r.Email, r.Phone, r.City, r.Notes, r.Status,
	}
}

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// Rows lists every signup with its ride. The inner join means a signup
// whose ride is gone can never appear.
func (s *Service) Rows(ctx context.Context) ([]Row, error) {
	rows, err := s.db.Query(ctx, `
		SELECT s.created_at, r.ride_name, r.ride_date::text, r.start_time, r.meeting_point, r.route_link,
		       s.full_name, s.email, s.phone, s.city, s.notes, s.status
		FROM signups s
		JOIN rides r ON r.id = s.ride_id
		ORDER BY r.ride_date, r.id, s.created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Row{}
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.CreatedAt, &r.RideName, &r.RideDate, &r.StartTime, &r.MeetingPoint, &r.RouteLink,
			&r.FullName, &r.Email, &r.Phone, &r.City, &r.Notes, &r.Status); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// WriteCSV writes the header and then one line per row with every field
// quoted. encoding/csv only quotes when it must, so quoting is done here.
func WriteCSV(w io.Writer, rows []Row) error {
	if _, err := io.WriteString(w, strings.Join(Header, ",")+"\n"); err != nil {
		return err
	}
	for _, r := range rows {
		fields := r.fields()
		for i, f := range fields {
			fields[i] = quote(f)
		}
		if _, err := io.WriteString(w, strings.Join(fields, ",")+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// Filename names a download after the export date.
func Filename(now time.Time) string {
	return "teamugly_roster_" + now.Format("2006-01-02") + ".csv"
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
