// internal/testutil/helpers.go
package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// ServeBody levanta un servidor HTTP que responde siempre con status y body.
// Se cierra automáticamente al terminar el test.
func ServeBody(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}
