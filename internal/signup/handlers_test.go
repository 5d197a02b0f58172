package signup

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"backend-teamugly/internal/config"
	"backend-teamugly/internal/mailer"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

type response struct {
	Message     string `json:"message"`
	EmailSent   bool   `json:"email_sent"`
	CancelToken string `json:"cancel_token"`
	Cancelled   bool   `json:"cancelled"`
}

func decode(t *testing.T, resp *http.Response) response {
	t.Helper()
	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func post(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request %s: %v", path, err)
	}
	return resp
}

func TestSignupThenCancelTwice(t *testing.T) {
	mock := newMock(t)
	expectRide(mock, 1)
	mock.ExpectQuery(`INSERT INTO signups`).
		WithArgs(int64(1), "Jane Doe", "jane@example.com", "", "", "", true, pgxmock.AnyArg(), StatusActive).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))

	app := fiber.New()
	RegisterRoutes(app, newTestService(mock, mailer.New(config.Config{}), nil))

	resp := post(t, app, "/rides/1/signups", validInput)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup status %d", resp.StatusCode)
	}
	created := decode(t, resp)
	if created.CancelToken == "" || created.EmailSent {
		t.Fatalf("expected token with degraded email path: %+v", created)
	}
	if !strings.Contains(created.Message, "Your cancellation code is: "+created.CancelToken) {
		t.Fatalf("expected token in message, got %q", created.Message)
	}

	mock.ExpectQuery(`UPDATE signups`).
		WithArgs(created.CancelToken).
		WillReturnRows(pgxmock.NewRows([]string{"ride_id"}).AddRow(int64(1)))
	mock.ExpectQuery(`UPDATE signups`).
		WithArgs(created.CancelToken).
		WillReturnRows(pgxmock.NewRows([]string{"ride_id"}))

	resp = post(t, app, "/cancel", map[string]string{"token": created.CancelToken})
	out := decode(t, resp)
	if resp.StatusCode != http.StatusOK || !out.Cancelled || out.Message != msgCancelled {
		t.Fatalf("expected cancel success: %+v", out)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/?cancel="+created.CancelToken, nil))
	if err != nil {
		t.Fatalf("cancel link: %v", err)
	}
	out = decode(t, resp)
	if resp.StatusCode != http.StatusOK || out.Cancelled || out.Message != msgLinkNotFound {
		t.Fatalf("expected already used on second cancel: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSignupHandlerValidationMessages(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app, newTestService(newMock(t), nil, nil))

	cases := []struct {
		in   Input
		code int
	}{
		{Input{Email: "jane@example.com", Acknowledged: true}, http.StatusBadRequest},
		{Input{FullName: "Jane", Email: "nope", Acknowledged: true}, http.StatusBadRequest},
		{Input{FullName: "Jane", Email: "jane@example.com"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		resp := post(t, app, "/rides/1/signups", tc.in)
		if resp.StatusCode != tc.code {
			t.Fatalf("expected %d for %+v, got %d", tc.code, tc.in, resp.StatusCode)
		}
	}

	resp := post(t, app, "/rides/zero/signups", validInput)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for malformed ride id")
	}
}

func TestCancelHandlerEmptyToken(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app, newTestService(newMock(t), nil, nil))

	resp := post(t, app, "/cancel", map[string]string{"token": ""})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for empty token")
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/cancel", nil))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for empty link token")
	}
}

func TestCancelLinkEndpoint(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`UPDATE signups`).
		WithArgs("abc").
		WillReturnRows(pgxmock.NewRows([]string{"ride_id"}).AddRow(int64(2)))

	app := fiber.New()
	RegisterRoutes(app, newTestService(mock, nil, nil))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/cancel?cancel=abc", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel link status: %v", err)
	}
	if out := decode(t, resp); !out.Cancelled {
		t.Fatalf("expected cancelled")
	}
}

func TestRootWithoutCancelFallsThrough(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app, newTestService(newMock(t), nil, nil))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("home") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("expected fall through to next root handler")
	}
}

func TestPublicRosterHandler(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery(`FROM signups s`).
		WillReturnRows(pgxmock.NewRows([]string{"ride_name", "ride_date", "full_name"}).
			AddRow("Long Ride", "2026-05-02", "Jane Doe"))

	app := fiber.New()
	RegisterRoutes(app, newTestService(mock, nil, nil))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/roster/public", nil))
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("public roster status: %v", err)
	}
	var entries []PublicEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil || len(entries) != 1 {
		t.Fatalf("decode entries: %v", err)
	}
}

func TestSignupFromHTMLForm(t *testing.T) {
	mock := newMock(t)
	expectRide(mock, 1)
	mock.ExpectQuery(`INSERT INTO signups`).
		WithArgs(int64(1), "Jane Doe", "jane@example.com", "", "", "", true, pgxmock.AnyArg(), StatusActive).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))

	app := fiber.New()
	RegisterRoutes(app, newTestService(mock, nil, nil))

	form := "full_name=Jane+Doe&email=jane%40example.com&acknowledged=on"
	req := httptest.NewRequest(http.MethodPost, "/rides/1/signups", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("form signup: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected ticked checkbox to be accepted, got %d", resp.StatusCode)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCheckboxDecoding(t *testing.T) {
	for raw, want := range map[string]bool{`true`: true, `false`: false, `"on"`: true, `"off"`: false, `""`: false} {
		var c Checkbox
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
		if bool(c) != want {
			t.Fatalf("decode %s: got %v", raw, c)
		}
	}
	var c Checkbox
	if err := json.Unmarshal([]byte(`"maybe"`), &c); err == nil {
		t.Fatalf("expected invalid checkbox value to fail")
	}
}
