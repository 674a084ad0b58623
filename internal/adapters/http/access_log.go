package http

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// accessLogger logs only failed or slow requests
func accessLogger(out io.Writer, slow time.Duration) fiber.Handler {
	return logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: time.RFC3339,
		Output: &filteredWriter{
			dest:             out,
			slowThreshold:    slow,
			errorStatusFloor: fiber.StatusBadRequest,
		},
	})
}

// filteredWriter drops log lines of fast, successful requests. Lines look like
//
//	"2026-01-02T15:04:05Z | 200 | 1.23ms | GET /path\n"
type filteredWriter struct {
	dest             io.Writer
	slowThreshold    time.Duration
	errorStatusFloor int
}

func (w *filteredWriter) Write(p []byte) (int, error) {
	parts := strings.Split(strings.TrimSpace(string(p)), " | ")
	if len(parts) < 3 {
		return w.dest.Write(p)
	}

	if status, err := strconv.Atoi(parts[1]); err == nil && status >= w.errorStatusFloor {
		return w.dest.Write(p)
	}
	if latency, err := time.ParseDuration(strings.ReplaceAll(parts[2], "µs", "us")); err == nil && w.slowThreshold > 0 && latency >= w.slowThreshold {
		return w.dest.Write(p)
	}
	return len(p), nil
}

// rateLimit caps submissions per client IP over window
func rateLimit(max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(errorBody{Error: "too many requests", Code: "RATE_LIMITED"})
		},
	})
}
