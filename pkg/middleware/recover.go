package middleware

import (
	"fmt"
	"net/http"

	"pizza-service/pkg/utils"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Recover turns a handler panic into a 500 {message} and marks the request span as failed.
// http.ErrAbortHandler is re-raised so net/http can drop the connection.
func Recover(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", rec)
				}

				span := trace.SpanFromContext(r.Context())
				span.RecordError(err, trace.WithStackTrace(true))
				span.SetStatus(codes.Error, "panic")

				logger.Error("Handler panicked",
					zap.Error(err),
					zap.String("route", r.Method+" "+r.URL.Path),
					zap.String("trace_id", span.SpanContext().TraceID().String()),
					zap.Stack("stack"),
				)

				utils.ResponseInternalError(w, "internal server error")
			}()
			next.ServeHTTP(w, r)
		})
	}
}
