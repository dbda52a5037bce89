package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const maxLoggedBody = 4 << 10

// responseWriter captures status code and a bounded copy of the body
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
	body         bytes.Buffer
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if room := maxLoggedBody - rw.body.Len(); room > 0 {
		rw.body.Write(b[:min(room, len(b))])
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

// Logger middleware. Request and response bodies are logged with password fields
// masked; the level follows the response status.
func Logger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			var reqBody []byte
			if r.Body != nil && r.Body != http.NoBody {
				raw, err := io.ReadAll(r.Body)
				if err == nil {
					reqBody = raw
				}
				r.Body = io.NopCloser(bytes.NewReader(raw))
			}

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			level := zapcore.InfoLevel
			switch {
			case rw.statusCode >= 500:
				level = zapcore.ErrorLevel
			case rw.statusCode >= 400:
				level = zapcore.WarnLevel
			}

			logger.Log(level, "HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", rw.statusCode),
				zap.Int("bytes", rw.bytesWritten),
				zap.Duration("duration", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
				zap.Bool("has_auth_header", r.Header.Get("Authorization") != ""),
				zap.String("req_body", sanitizeBody(reqBody)),
				zap.String("res_body", sanitizeBody(rw.body.Bytes())),
			)
		})
	}
}

// sanitizeBody masks password fields at any depth of a JSON body and truncates the result.
func sanitizeBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err == nil {
		if masked, err := json.Marshal(maskPasswords(doc)); err == nil {
			body = masked
		}
	}

	if len(body) > maxLoggedBody {
		return string(body[:maxLoggedBody]) + "..."
	}
	return string(body)
}

func maskPasswords(v any) any {
	switch node := v.(type) {
	case map[string]any:
		for key, child := range node {
			if strings.EqualFold(key, "password") {
				node[key] = "*****"
				continue
			}
			node[key] = maskPasswords(child)
		}
	case []any:
		for i, child := range node {
			node[i] = maskPasswords(child)
		}
	}
	return v
}
