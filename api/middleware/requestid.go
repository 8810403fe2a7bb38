package middleware

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/coursehub/coursehub/api/web"
)

// RequestIDHeader is honored when the caller supplies its own id,
// truncated to a sane length.
const (
	RequestIDHeader    = "X-Request-Id"
	requestIDMaxLength = 128
)

type reqIDKeyCtx int

const reqIDKey reqIDKeyCtx = 1

var (
	reqCounter int64
	reqPrefix  string
)

// The prefix distinguishes ids generated by different process
// instances; the counter distinguishes requests within one.
func init() {
	var buf [12]byte
	var b64 string
	for len(b64) < 10 {
		_, _ = rand.Read(buf[:])
		b64 = base64.StdEncoding.EncodeToString(buf[:])
		b64 = strings.NewReplacer("+", "", "/", "").Replace(b64)
	}
	reqPrefix = b64[0:10]
}

func RequestID() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = fmt.Sprintf("%s-%d", reqPrefix, atomic.AddInt64(&reqCounter, 1))
			} else if len(id) > requestIDMaxLength {
				id = id[:requestIDMaxLength]
			}

			ctx = context.WithValue(ctx, reqIDKey, id)
			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

// ContextRequestID returns the request id stored by RequestID, or the
// empty string.
func ContextRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(reqIDKey).(string); ok {
		return id
	}
	return ""
}
