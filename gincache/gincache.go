// Package gincache adapts response caching to the Gin web framework.
package gincache

import (
	"bufio"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	responsecache "github.com/karupanerura/response-cache"
)

// Cached returns a Gin middleware that caches the responses of the handlers
// registered after it. On a cache hit the stored response is written and the
// remaining handler chain is skipped.
//
//	router := gin.New()
//	cache := responsecache.New(memstorage.NewInMemoryStorage())
//	router.GET("/articles", gincache.Cached(cache, responsecache.WithTTL(time.Minute)), listArticles)
func Cached(cache *responsecache.Cache, opts ...responsecache.RouteOption) gin.HandlerFunc {
	middleware := cache.Middleware(opts...)
	return func(c *gin.Context) {
		served := false
		middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			served = true
			prev, prevReq := c.Writer, c.Request
			c.Writer = newContextWriter(w)
			c.Request = r
			defer func() {
				c.Writer, c.Request = prev, prevReq
			}()
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)

		if !served {
			c.Abort()
		}
	}
}

const noWritten = -1

// contextWriter exposes a plain http.ResponseWriter (such as the caching
// recorder) through the gin.ResponseWriter interface.
type contextWriter struct {
	http.ResponseWriter
	status int
	size   int
}

var _ gin.ResponseWriter = (*contextWriter)(nil)

func newContextWriter(w http.ResponseWriter) *contextWriter {
	return &contextWriter{ResponseWriter: w, status: http.StatusOK, size: noWritten}
}

func (w *contextWriter) WriteHeader(statusCode int) {
	if w.Written() {
		return
	}
	w.status = statusCode
	w.size = 0
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *contextWriter) WriteHeaderNow() {
	if !w.Written() {
		w.size = 0
		w.ResponseWriter.WriteHeader(w.status)
	}
}

func (w *contextWriter) Write(p []byte) (int, error) {
	w.WriteHeaderNow()
	n, err := w.ResponseWriter.Write(p)
	w.size += n
	return n, err
}

func (w *contextWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *contextWriter) Status() int {
	return w.status
}

func (w *contextWriter) Size() int {
	return w.size
}

func (w *contextWriter) Written() bool {
	return w.size != noWritten
}

func (w *contextWriter) Flush() {
	w.WriteHeaderNow()
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (w *contextWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := w.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, errors.New("gincache: underlying writer does not support hijacking")
}

// neverNotified stands in for connections that cannot report closure.
var neverNotified = make(chan bool)

func (w *contextWriter) CloseNotify() <-chan bool {
	if notifier, ok := w.ResponseWriter.(http.CloseNotifier); ok {
		return notifier.CloseNotify()
	}
	return neverNotified
}

func (w *contextWriter) Pusher() http.Pusher {
	if pusher, ok := w.ResponseWriter.(http.Pusher); ok {
		return pusher
	}
	return nil
}
