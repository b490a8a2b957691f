package http

import (
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhonatanGuingo/API-BatePapo-UOL/internal/chat"
	"github.com/jhonatanGuingo/API-BatePapo-UOL/internal/config"
	"github.com/jhonatanGuingo/API-BatePapo-UOL/internal/store"
	"github.com/jhonatanGuingo/API-BatePapo-UOL/internal/store/sqlite"
)

// newTestServer builds a server over an in-memory store.
func newTestServer(t *testing.T) (*stdhttp.Server, store.Store) {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	disabledLogger := zerolog.New(nil)

	cfg := config.Config{
		Addr:                ":0",
		ReadHeaderTimeout:   time.Second,
		ShutdownTimeout:     time.Second,
		ReapInterval:        15 * time.Second,
		InactivityThreshold: 10 * time.Second,
	}

	svc := chat.NewService(st, &disabledLogger)
	return NewServer(svc, &cfg, &disabledLogger), st
}

// do runs one request against the server's handler and returns the recorder.
func do(t *testing.T, server *stdhttp.Server, method, path, body, user string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set(IdentityHeader, user)
	}

	resp := httptest.NewRecorder()
	server.Handler.ServeHTTP(resp, req)
	return resp
}
