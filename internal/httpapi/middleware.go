package httpapi

import (
	"bytes"
	"log"
	"net/http"
	"time"
)

const maxLoggedBodyBytes = 512

type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	maxLogBytes  int
	bytesWritten int
	logBody      bytes.Buffer
	truncated    bool
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	written, err := r.ResponseWriter.Write(p)
	r.bytesWritten += written

	if remaining := r.maxLogBytes - r.logBody.Len(); remaining > 0 {
		if len(p) > remaining {
			r.logBody.Write(p[:remaining])
			r.truncated = true
		} else {
			r.logBody.Write(p)
		}
	} else if len(p) > 0 {
		r.truncated = true
	}
	return written, err
}

// logRequests logs one line per request. Error bodies are included so failed
// requests can be diagnosed from the log alone.
func logRequests(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			maxLogBytes:    maxLoggedBodyBytes,
		}

		next.ServeHTTP(recorder, r)

		elapsed := time.Since(start).Round(time.Microsecond)
		if recorder.statusCode >= http.StatusBadRequest {
			suffix := ""
			if recorder.truncated {
				suffix = "..."
			}
			logger.Printf("%s %s -> %d (%d bytes, %s): %s%s", r.Method, r.URL.Path, recorder.statusCode, recorder.bytesWritten, elapsed, bytes.TrimSpace(recorder.logBody.Bytes()), suffix)
			return
		}
		logger.Printf("%s %s -> %d (%d bytes, %s)", r.Method, r.URL.Path, recorder.statusCode, recorder.bytesWritten, elapsed)
	})
}
