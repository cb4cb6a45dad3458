package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

// minCompressSize is the smallest response body worth gzipping. A
// GetByID/Count reply is a handful of bytes; gzip's framing overhead would
// make the wire response bigger, not smaller, so those go out uncompressed.
// A search result set, which can run to dozens of records, is the case
// this exists for.
const minCompressSize = 1024

var gzipWriterPool = sync.Pool{
	New: func() interface{} { return gzip.NewWriter(io.Discard) },
}

var sniffBufferPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

// sniffWriter buffers a handler's output until it has seen either
// minCompressSize bytes or the handler finishes, then commits to gzip or
// plain output exactly once. Buffering the whole reply is fine here: every
// response this service sends is a JSON array or object built in memory
// beforehand, never a stream.
type sniffWriter struct {
	http.ResponseWriter
	buf         *bytes.Buffer
	status      int
	wroteHeader bool
	decided     bool
	gz          *gzip.Writer
}

func (w *sniffWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.status = status
}

func (w *sniffWriter) Write(b []byte) (int, error) {
	if w.decided {
		if w.gz != nil {
			return w.gz.Write(b)
		}
		return w.ResponseWriter.Write(b)
	}

	w.buf.Write(b)
	if w.buf.Len() >= minCompressSize {
		w.commit(true)
	}
	return len(b), nil
}

func (w *sniffWriter) commit(compress bool) {
	w.decided = true
	if w.status == 0 {
		w.status = http.StatusOK
	}

	if compress {
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Del("Content-Length")
		w.ResponseWriter.WriteHeader(w.status)

		gz, _ := gzipWriterPool.Get().(*gzip.Writer)
		gz.Reset(w.ResponseWriter)
		w.gz = gz
		_, _ = gz.Write(w.buf.Bytes())
		return
	}

	w.ResponseWriter.WriteHeader(w.status)
	_, _ = w.ResponseWriter.Write(w.buf.Bytes())
}

// Close finalizes the response: a body that never reached minCompressSize
// is flushed uncompressed, one that did has its gzip.Writer closed and
// returned to the pool.
func (w *sniffWriter) Close() error {
	if !w.decided {
		w.commit(false)
	}
	if w.gz == nil {
		return nil
	}
	err := w.gz.Close()
	gzipWriterPool.Put(w.gz)
	return err
}

// Compression gzips responses at or above minCompressSize when the
// caller's Accept-Encoding allows it. WebSocket upgrades are never
// wrapped: gzip framing has no meaning on an upgraded connection.
func Compression(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Upgrade") == "websocket" || !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next(w, r)
			return
		}

		buf, _ := sniffBufferPool.Get().(*bytes.Buffer)
		buf.Reset()
		defer sniffBufferPool.Put(buf)

		sw := &sniffWriter{ResponseWriter: w, buf: buf}
		next(sw, r)
		_ = sw.Close()
	}
}
