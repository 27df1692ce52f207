package reqid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveWithID(t *testing.T, inbound string) (header string, inCtx string) {
	t.Helper()

	handler := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inCtx = FromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if inbound != "" {
		req.Header.Set(Header, inbound)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec.Header().Get(Header), inCtx
}

func TestMiddlewareGeneratesID(t *testing.T) {
	header, inCtx := serveWithID(t, "")

	require.Len(t, header, 32, "16 random bytes hex-encoded")
	assert.Equal(t, header, inCtx)
}

func TestMiddlewareReusesWellFormedID(t *testing.T) {
	header, inCtx := serveWithID(t, "trace-abc_123.7")

	assert.Equal(t, "trace-abc_123.7", header)
	assert.Equal(t, "trace-abc_123.7", inCtx)
}

func TestMiddlewareReplacesHostileID(t *testing.T) {
	for _, inbound := range []string{
		"bad id with spaces",
		"line\nbreak",
		strings.Repeat("a", maxIDLen+1),
		"non-ascii-é",
	} {
		header, inCtx := serveWithID(t, inbound)
		assert.NotEqual(t, inbound, header)
		assert.Len(t, header, 32)
		assert.Equal(t, header, inCtx)
	}
}

func TestFromCtxMissing(t *testing.T) {
	assert.Empty(t, FromCtx(context.Background()))
}
