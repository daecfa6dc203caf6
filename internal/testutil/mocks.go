// internal/testutil/mocks.go
package testutil

import (
	"context"
	"net/url"
	"sync"
	"time"

	"redrecon/internal/core/domain"
	"redrecon/internal/core/ports"
)

// Nota: los mocks de Probe y Notifier viven en los tests de usecases.
// Aquí solo hay dobles de colaboradores que comparten varias probes.

// MockNetClient es un mock de ports.NetClient.
type MockNetClient struct {
	FetchFunc func(ctx context.Context, rawURL string, params url.Values, timeout time.Duration) *domain.Payload

	mu          sync.Mutex
	CallCount   int
	LastURL     string
	LastParams  url.Values
	LastTimeout time.Duration
}

// NewMockNetClient crea un mock que responde siempre con body y status 200.
// Un body vacío simula un fallo de transporte (payload nil).
func NewMockNetClient(body string) *MockNetClient {
	return &MockNetClient{
		FetchFunc: func(context.Context, string, url.Values, time.Duration) *domain.Payload {
			if body == "" {
				return nil
			}
			return domain.NewPayload(200, []byte(body))
		},
	}
}

// Fetch simula una petición GET.
func (m *MockNetClient) Fetch(ctx context.Context, rawURL string, params url.Values, timeout time.Duration) *domain.Payload {
	m.mu.Lock()
	m.CallCount++
	m.LastURL = rawURL
	m.LastParams = params
	m.LastTimeout = timeout
	fn := m.FetchFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, rawURL, params, timeout)
	}
	return nil
}

// InlinePool implementa ports.Offloader con una goroutine por tarea, sin límite.
type InlinePool struct {
	mu    sync.Mutex
	Names []string
}

// Submit ejecuta fn en una goroutine y entrega el resultado.
func (p *InlinePool) Submit(ctx context.Context, name string, fn func(ctx context.Context) (any, error)) <-chan ports.TaskResult {
	p.mu.Lock()
	p.Names = append(p.Names, name)
	p.mu.Unlock()

	reply := make(chan ports.TaskResult, 1)
	go func() {
		start := time.Now()
		v, err := fn(ctx)
		reply <- ports.TaskResult{Name: name, Value: v, Err: err, Duration: time.Since(start)}
	}()
	return reply
}

// Submitted retorna los nombres de las tareas recibidas.
func (p *InlinePool) Submitted() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.Names...)
}
