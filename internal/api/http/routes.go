package httpapi

import (
	"bufio"
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/i474232898/weather-block/internal/block"
	"github.com/i474232898/weather-block/internal/store"
)

var validate = validator.New()

// streamTimeout bounds a streamed decoration; the request context is gone
// once the handler has returned.
const streamTimeout = 30 * time.Second

// ProbeLister exposes the canary journal.
type ProbeLister interface {
	Latest() []store.Probe
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, decorator *block.Decorator, probes ProbeLister) {
	v1 := app.Group("/api/v1")

	// Renders the block for ?city= (or the default city).
	v1.Get("/weather/block", func(c *fiber.Ctx) error {
		q, err := parseBlockQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		region := block.NewFragment("")
		out := decorator.RunWithID(c.UserContext(), region, q.City, requestID(c))
		return sendFragment(c, region, out)
	})

	// Decorates authored block markup posted as the request body.
	v1.Post("/weather/block/decorate", func(c *fiber.Ctx) error {
		region := block.NewFragment(string(c.Body()))
		city, _ := block.CityFromMarkup(region.HTML())

		out := decorator.RunWithID(c.UserContext(), region, city, requestID(c))
		return sendFragment(c, region, out)
	})

	// Streams every render state as a server-sent event.
	v1.Get("/weather/block/stream", func(c *fiber.Ctx) error {
		q, err := parseBlockQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		id := requestID(c)

		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")
		c.Set("X-Accel-Buffering", "no")

		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			ctx, cancel := context.WithTimeout(context.Background(), streamTimeout)
			defer cancel()

			region := &eventRegion{w: w, cancel: cancel}
			out := decorator.RunWithID(ctx, region, q.City, id)
			writeEvent(w, "done", out.State.String())
		})
		return nil
	})

	v1.Get("/weather/canary", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"probes": probes.Latest(),
		})
	})
}

// blockQuery holds query parameters for the block endpoints.
type blockQuery struct {
	City string `validate:"omitempty,max=200"`
}

func parseBlockQuery(c *fiber.Ctx) (blockQuery, error) {
	var q blockQuery
	// Fiber reuses request buffers; the stream writer outlives the handler.
	q.City = strings.Clone(c.Query("city"))

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// requestID returns the caller's X-Request-ID or a fresh one, echoing it back.
func requestID(c *fiber.Ctx) string {
	id := strings.Clone(c.Get(fiber.HeaderXRequestID))
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(fiber.HeaderXRequestID, id)
	return id
}

func sendFragment(c *fiber.Ctx, region block.Region, out block.Outcome) error {
	c.Set("X-Weather-State", out.State.String())
	c.Type("html", "utf-8")
	return c.SendString(region.HTML())
}
