package gincache

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// plainWriter hides the optional interfaces httptest.ResponseRecorder gains
// over a bare http.ResponseWriter.
type plainWriter struct {
	http.ResponseWriter
}

func TestContextWriter_CloseNotify(t *testing.T) {
	t.Parallel()

	w := newContextWriter(&plainWriter{ResponseWriter: httptest.NewRecorder()})
	ch := w.CloseNotify()
	if ch == nil {
		t.Fatal("CloseNotify must not return a nil channel")
	}
	select {
	case <-ch:
		t.Error("the channel must not fire for a connection that cannot report closure")
	default:
	}
}

func TestContextWriter_StatusAndSize(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	w := newContextWriter(rec)

	if w.Written() {
		t.Error("nothing written yet")
	}
	if w.Status() != http.StatusOK {
		t.Errorf("unexpected default status: %d", w.Status())
	}

	w.WriteHeader(http.StatusCreated)
	if _, err := w.WriteString("hello"); err != nil {
		t.Fatal(err)
	}
	if !w.Written() {
		t.Error("should report written")
	}
	if w.Status() != http.StatusCreated {
		t.Errorf("unexpected status: %d", w.Status())
	}
	if w.Size() != len("hello") {
		t.Errorf("unexpected size: %d", w.Size())
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status should reach the underlying writer: %d", rec.Code)
	}

	// A late status change must not reach the client.
	w.WriteHeader(http.StatusTeapot)
	if w.Status() != http.StatusCreated {
		t.Errorf("unexpected status after late WriteHeader: %d", w.Status())
	}
}

func TestContextWriter_Hijack(t *testing.T) {
	t.Parallel()

	w := newContextWriter(&plainWriter{ResponseWriter: httptest.NewRecorder()})
	if _, _, err := w.Hijack(); err == nil {
		t.Error("Hijack should fail when the underlying writer does not support it")
	}
}
