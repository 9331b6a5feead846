package httpx

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonBody(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"payload": strings.Repeat("a", 256)})
}

func TestCompression_GzipsJSON(t *testing.T) {
	h := Compression(CompressionConfig{})(http.HandlerFunc(jsonBody))

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/overview", nil)
	req.Header.Set("Accept-Encoding", "br, gzip;q=0.8")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	assert.Contains(t, w.Header().Values("Vary"), "Accept-Encoding")

	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	plain, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(plain), `"payload":"aaaa`)
}

func TestCompression_Skips(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		accept  string
		handler http.HandlerFunc
	}{
		{"no accept-encoding", http.MethodGet, "", jsonBody},
		{"gzip disabled by q=0", http.MethodGet, "gzip;q=0", jsonBody},
		{"head request", http.MethodHead, "gzip", jsonBody},
		{
			name:   "incompressible type",
			method: http.MethodGet,
			accept: "gzip",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "image/png")
				_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
			},
		},
		{
			name:   "no content",
			method: http.MethodGet,
			accept: "gzip",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			if tt.accept != "" {
				req.Header.Set("Accept-Encoding", tt.accept)
			}
			w := httptest.NewRecorder()
			Compression(CompressionConfig{})(tt.handler).ServeHTTP(w, req)

			assert.Empty(t, w.Header().Get("Content-Encoding"))
		})
	}
}

func TestAcceptsGzip(t *testing.T) {
	assert.True(t, acceptsGzip("gzip"))
	assert.True(t, acceptsGzip("deflate, GZIP"))
	assert.True(t, acceptsGzip("gzip;q=0.5"))
	assert.False(t, acceptsGzip("gzip;q=0"))
	assert.False(t, acceptsGzip("gzip; q=0.0"))
	assert.False(t, acceptsGzip("x-gzip-ish"))
	assert.False(t, acceptsGzip(""))
}
