package roster

import (
	"bytes"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the admin roster views. isAdmin decides per request;
// a locked caller gets an empty table and a header-only CSV.
func RegisterRoutes(r fiber.Router, svc *Service, isAdmin func(*fiber.Ctx) bool) {
	r.Get("/roster", func(c *fiber.Ctx) error {
		if !isAdmin(c) {
			return c.JSON(fiber.Map{"locked": true, "rows": []Row{}})
		}
		rows, err := svc.Rows(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{"locked": false, "rows": rows})
	})

	r.Get("/roster.csv", func(c *fiber.Ctx) error {
		rows := []Row{}
		if isAdmin(c) {
			var err error
			rows, err = svc.Rows(c.Context())
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
		}

		var buf bytes.Buffer
		if err := WriteCSV(&buf, rows); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+Filename(time.Now())+`"`)
		return c.Send(buf.Bytes())
	})
}
