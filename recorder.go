package responsecache

import (
	"bytes"
	"net/http"
)

// responseRecorder buffers a handler's response so that it can be inspected
// and stored before anything is sent to the client. Streaming handlers are
// buffered whole: Flush is accepted but deferred until replay.
type responseRecorder struct {
	header      http.Header
	body        bytes.Buffer
	status      int
	wroteHeader bool
}

var (
	_ http.ResponseWriter = (*responseRecorder)(nil)
	_ http.Flusher        = (*responseRecorder)(nil)
)

func newRecorder() *responseRecorder {
	return &responseRecorder{header: make(http.Header)}
}

func (rec *responseRecorder) Header() http.Header {
	return rec.header
}

func (rec *responseRecorder) WriteHeader(statusCode int) {
	if rec.wroteHeader {
		return
	}
	rec.status = statusCode
	rec.wroteHeader = true
}

func (rec *responseRecorder) Write(p []byte) (int, error) {
	if !rec.wroteHeader {
		rec.WriteHeader(http.StatusOK)
	}
	return rec.body.Write(p)
}

// Flush is a no-op. The response must be buffered whole to be cached.
func (rec *responseRecorder) Flush() {}

// response converts the recorded state into a storable Response.
func (rec *responseRecorder) response() *Response {
	status := rec.status
	if !rec.wroteHeader {
		status = http.StatusOK
	}
	return &Response{
		StatusCode: status,
		Header:     rec.header,
		Body:       rec.body.Bytes(),
	}
}
