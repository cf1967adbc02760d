package middleware

import (
	"net/http"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

// compressMinLength is the smallest body worth compressing. Responses
// below it (error envelopes, submit results) pass through untouched.
const compressMinLength = 1024

type brotliWriter struct {
	gin.ResponseWriter
	bw       *brotli.Writer
	pending  []byte
	started  sync.Once
	encoding bool
}

func (w *brotliWriter) Write(data []byte) (int, error) {
	w.pending = append(w.pending, data...)
	if len(w.pending) < compressMinLength {
		return len(data), nil
	}

	w.started.Do(func() {
		w.encoding = true
		w.ResponseWriter.Header().Set("Content-Encoding", "br")
		w.ResponseWriter.Header().Del("Content-Length")
	})

	n, err := w.bw.Write(w.pending)
	w.pending = w.pending[:0]
	return n, err
}

func (w *brotliWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// Flush drains small bodies as identity and forwards the flush so
// streaming handlers keep working behind the middleware.
func (w *brotliWriter) Flush() {
	if len(w.pending) > 0 {
		_, _ = w.ResponseWriter.Write(w.pending)
		w.pending = w.pending[:0]
	}
	w.ResponseWriter.Flush()
}

func (w *brotliWriter) finish() error {
	if len(w.pending) > 0 {
		_, err := w.ResponseWriter.Write(w.pending)
		w.pending = w.pending[:0]
		if err != nil {
			return err
		}
	}
	if w.encoding {
		return w.bw.Close()
	}
	return nil
}

// Brotli compresses response bodies for clients that advertise br
// support. Quiz payloads and leaderboards are the main beneficiaries.
func Brotli() gin.HandlerFunc {
	return func(c *gin.Context) {
		if mustPassThrough(c) || !acceptsBrotli(c.Request) {
			c.Next()
			return
		}

		c.Header("Vary", "Accept-Encoding")

		w := &brotliWriter{
			ResponseWriter: c.Writer,
			bw:             brotli.NewWriterLevel(c.Writer, brotli.DefaultCompression),
		}

		defer func() {
			if err := w.finish(); err != nil {
				_ = c.Error(err)
			}
		}()

		c.Writer = w
		c.Next()
	}
}

// mustPassThrough reports whether the request uses a protocol that a
// buffering writer would break.
func mustPassThrough(c *gin.Context) bool {
	// The WebSocket handshake hijacks the connection and cannot go
	// through a wrapped writer.
	if strings.HasPrefix(c.Request.URL.Path, "/ws/") {
		return true
	}
	if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		return true
	}
	// SSE needs every event on the wire immediately.
	return strings.Contains(c.GetHeader("Accept"), "text/event-stream")
}

func acceptsBrotli(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		if strings.TrimSpace(strings.ToLower(enc)) == "br" {
			return true
		}
	}
	return false
}
