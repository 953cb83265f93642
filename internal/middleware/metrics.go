package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestRecorder is the part of metrics.Collector the HTTP layer feeds.
type RequestRecorder interface {
	RecordHTTPRequest(method, route string, status int, d time.Duration)
}

// Metrics records one observation per request labelled by the matched route
// pattern, so path parameters never become label values.
func Metrics(rec RequestRecorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		rec.RecordHTTPRequest(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}
