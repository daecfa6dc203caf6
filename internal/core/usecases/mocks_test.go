// internal/core/usecases/mocks_test.go
package usecases

import (
	"context"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"redrecon/internal/core/domain"
	"redrecon/internal/core/ports"
)

// mockProbe es un mock de ports.Probe para tests del orchestrator
type mockProbe struct {
	name         string
	category     domain.Category
	runFunc      func(ctx context.Context, target string, client ports.NetClient) (*domain.ProbeResult, error)
	runCallCount int32
}

func newMockProbe(name string, run func(ctx context.Context, target string, client ports.NetClient) (*domain.ProbeResult, error)) *mockProbe {
	return &mockProbe{name: name, category: domain.CategoryRecon, runFunc: run}
}

// returning crea una probe que devuelve data tras delay.
func returning(name, source string, delay time.Duration, data domain.Data) *mockProbe {
	return newMockProbe(name, func(ctx context.Context, _ string, _ ports.NetClient) (*domain.ProbeResult, error) {
		if delay > 0 {
			time.Sleep(delay)
		}
		return domain.NewProbeResult(source, "subdomains", data), nil
	})
}

// failing crea una probe que retorna err tras delay.
func failing(name string, delay time.Duration, err error) *mockProbe {
	return newMockProbe(name, func(ctx context.Context, _ string, _ ports.NetClient) (*domain.ProbeResult, error) {
		if delay > 0 {
			time.Sleep(delay)
		}
		return nil, err
	})
}

// panicking crea una probe que hace panic.
func panicking(name string) *mockProbe {
	return newMockProbe(name, func(ctx context.Context, _ string, _ ports.NetClient) (*domain.ProbeResult, error) {
		panic("boom")
	})
}

// blocking crea una probe que solo termina cuando ctx se cancela o release se cierra.
func blocking(name string, release <-chan struct{}) *mockProbe {
	return newMockProbe(name, func(ctx context.Context, _ string, _ ports.NetClient) (*domain.ProbeResult, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-release:
			return domain.NewProbeResult(name, "late", domain.List()), nil
		}
	})
}

func (m *mockProbe) Name() string              { return m.name }
func (m *mockProbe) Category() domain.Category { return m.category }
func (m *mockProbe) Description() string       { return "mock probe " + m.name }

func (m *mockProbe) Run(ctx context.Context, target string, client ports.NetClient) (*domain.ProbeResult, error) {
	atomic.AddInt32(&m.runCallCount, 1)
	if m.runFunc != nil {
		return m.runFunc(ctx, target, client)
	}
	return domain.NewProbeResult(m.name, "mock", domain.List()), nil
}

// fakeClient implementa ports.SharedClient contando el ciclo de vida.
type fakeClient struct {
	startErr error
	starts   int32
	closes   int32
	fetches  int32
}

func (c *fakeClient) Start(ctx context.Context) error {
	atomic.AddInt32(&c.starts, 1)
	return c.startErr
}

func (c *fakeClient) Close() error {
	atomic.AddInt32(&c.closes, 1)
	return nil
}

func (c *fakeClient) Fetch(ctx context.Context, rawURL string, params url.Values, timeout time.Duration) *domain.Payload {
	atomic.AddInt32(&c.fetches, 1)
	return nil
}

// mockNotifier es un mock de ports.Notifier para tests
type mockNotifier struct {
	mu         sync.Mutex
	events     []ports.Event
	notifyFunc func(ctx context.Context, event ports.Event) error
	closed     bool
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{events: make([]ports.Event, 0)}
}

func (m *mockNotifier) Notify(ctx context.Context, event ports.Event) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	fn := m.notifyFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, event)
	}
	return nil
}

func (m *mockNotifier) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockNotifier) getEventsByType(eventType ports.EventType) []ports.Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	filtered := make([]ports.Event, 0)
	for _, e := range m.events {
		if e.Type == eventType {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

func (m *mockNotifier) getEventTypes() []ports.EventType {
	m.mu.Lock()
	defer m.mu.Unlock()

	types := make([]ports.EventType, 0, len(m.events))
	for _, e := range m.events {
		types = append(types, e.Type)
	}
	return types
}
