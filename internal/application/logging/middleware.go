package logging

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/portbattle-go/internal/application/mediator"
	"github.com/andrescamacho/portbattle-go/internal/domain/shared"
)

// Middleware puts logger on the request context and logs failed requests.
// Expected client errors (validation, conflicts) log at INFO, everything else at ERROR.
func Middleware(logger Logger) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		ctx = WithLogger(ctx, logger)
		start := time.Now()

		resp, err := next(ctx, request)
		if err != nil {
			level := "ERROR"
			switch shared.KindOf(err) {
			case shared.KindValidation, shared.KindConflict, shared.KindNotFound,
				shared.KindUnauthorized, shared.KindForbidden:
				level = "INFO"
			}
			logger.Log(level, "request failed", map[string]interface{}{
				"request":     RequestName(request),
				"error":       err.Error(),
				"code":        shared.CodeOf(err),
				"duration_ms": time.Since(start).Milliseconds(),
			})
		}
		return resp, err
	}
}

// RequestName derives a short name from the request type, e.g. "SubmitSignup"
func RequestName(request mediator.Request) string {
	t := reflect.TypeOf(request)
	if t == nil {
		return "unknown"
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	name := strings.TrimSuffix(t.Name(), "Command")
	return strings.TrimSuffix(name, "Query")
}
