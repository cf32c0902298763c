package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-logbook/internal/store"
	"github.com/i474232898/weather-logbook/internal/weather"
)

// RegisterRoutes wires the record handlers into the Fiber app. They are served
// under /records and under the legacy /api/weather prefix.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	h := &recordHandlers{service: service}

	for _, prefix := range []string{"/records", "/api/weather"} {
		g := app.Group(prefix)
		g.Post("/", h.create)
		g.Get("/", h.list)
		g.Put("/:id", h.update)
		g.Delete("/:id", h.delete)
	}
}

type recordHandlers struct {
	service *weather.Service
}

func (h *recordHandlers) create(c *fiber.Ctx) error {
	fields, err := parseFields(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	rec, err := h.service.Create(c.UserContext(), fields)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(rec)
}

func (h *recordHandlers) list(c *fiber.Ctx) error {
	recs, err := h.service.List(c.UserContext())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(recs)
}

func (h *recordHandlers) update(c *fiber.Ctx) error {
	patch, err := parseFields(c)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	rec, err := h.service.Update(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// A well-formed id that matches nothing answers 200 with a null body.
			return c.JSON(nil)
		}
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(rec)
}

func (h *recordHandlers) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// parseFields decodes a JSON record body. Bodies that are empty or not JSON
// yield no fields.
func parseFields(c *fiber.Ctx) (weather.Fields, error) {
	body := c.Body()
	if len(body) == 0 || !isJSON(c.Get(fiber.HeaderContentType)) {
		return weather.Fields{}, nil
	}

	var raw recordBody
	if err := json.Unmarshal(body, &raw); err != nil {
		return weather.Fields{}, err
	}
	return raw.fields()
}

// isJSON reports whether a Content-Type header names application/json.
// Media types compare case-insensitively.
func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == fiber.MIMEApplicationJSON
}

// recordBody accepts numbers and booleans for the text fields and stores
// their literal form, so {"temperature": 21} becomes "21".
type recordBody struct {
	Location    json.RawMessage    `json:"location"`
	DateRange   *weather.DateRange `json:"dateRange"`
	Temperature json.RawMessage    `json:"temperature"`
	Humidity    json.RawMessage    `json:"humidity"`
	Description json.RawMessage    `json:"description"`
}

func (b recordBody) fields() (weather.Fields, error) {
	f := weather.Fields{DateRange: b.DateRange}

	targets := []struct {
		name string
		raw  json.RawMessage
		dst  **string
	}{
		{"location", b.Location, &f.Location},
		{"temperature", b.Temperature, &f.Temperature},
		{"humidity", b.Humidity, &f.Humidity},
		{"description", b.Description, &f.Description},
	}
	for _, t := range targets {
		v, err := scalarText(t.raw)
		if err != nil {
			return weather.Fields{}, fmt.Errorf("%s: %w", t.name, err)
		}
		*t.dst = v
	}
	return f, nil
}

// scalarText returns the text of a JSON string, number or boolean.
// Absent and null values yield nil.
func scalarText(raw json.RawMessage) (*string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	case 't', 'f':
		var v bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		s := strconv.FormatBool(v)
		return &s, nil
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, errors.New("expected a string")
		}
		s := n.String()
		return &s, nil
	}
}
