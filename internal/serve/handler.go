package serve

import (
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// NewHandler returns the HTTP responder for the refresher. The contract is
// deliberately small: the configured paths answer GET with the latest
// document (503 until the first success); everything else is 404.
func NewHandler(r *Refresher) http.Handler {
	return withObservability(&handler{refresher: r})
}

type handler struct {
	refresher *Refresher
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	switch r.URL.Path {
	case "/", "/clash.yaml", "/config.yaml", "/config":
	default:
		http.NotFound(w, r)
		return
	}

	snap, lastErr := h.refresher.Latest()
	if snap == nil {
		msg := lastErr
		if msg == "" {
			msg = "未就绪"
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(msg))
		return
	}

	w.Header().Set("Content-Type", "text/yaml; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(snap.YAML)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(snap.YAML)
}

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

func (w *statusWriter) WriteHeader(statusCode int) {
	w.status = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

func withObservability(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)

		status := sw.status
		if status == 0 {
			status = http.StatusOK
		}

		metricsIncRequest(r.URL.Path, status)
		logrus.Debugf("[serve] %s %s -> %d (%d bytes, %s)",
			r.Method, r.URL.Path, status, sw.bytes, time.Since(start).Round(time.Millisecond))
	})
}
