package contacts

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"
)

// ErrNoContacts means there is no usable mailing list at all: the file is
// missing, empty, or holds a header and nothing else.
var ErrNoContacts = errors.New("no contacts")

type Contact struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
}

var (
	emailHeaders = []string{"email"}
	firstHeaders = []string{"first name", "first"}
)

// Load reads the mailing list fresh from disk. Rows without an email are
// skipped; a file whose rows all lack one yields an empty slice and no error.
func Load(path string) ([]Contact, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoContacts
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func Parse(r io.Reader) ([]Contact, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoContacts
	}
	if err != nil {
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	emailCol := column(header, emailHeaders)
	firstCol := column(header, firstHeaders)

	out := []Contact{}
	rows := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows++

		email := field(record, emailCol)
		if email == "" {
			continue
		}
		out = append(out, Contact{Email: email, FirstName: field(record, firstCol)})
	}
	if rows == 0 {
		return nil, ErrNoContacts
	}
	return out, nil
}

// Emails returns the addresses in file order.
func Emails(list []Contact) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.Email)
	}
	return out
}

func column(header []string, names []string) int {
	for _, name := range names {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
	}
	return -1
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
