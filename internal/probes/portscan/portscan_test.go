// internal/probes/portscan/portscan_test.go
package portscan

import (
	"context"
	"errors"
	"net"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redrecon/internal/core/ports"
	"redrecon/internal/platform/logx"
	"redrecon/internal/platform/registry"
)

func newScanner(t *testing.T, settings map[string]any) *Scanner {
	t.Helper()
	s, err := New(ports.ProbeConfig{Settings: settings}, logx.NewNop())
	require.NoError(t, err)
	return s
}

func TestRun_OpenAndTimedOut(t *testing.T) {
	s := newScanner(t, map[string]any{"ports": []int{80, 443}, "timeout": "100ms"}).
		WithDialer(func(ctx context.Context, _, address string) (net.Conn, error) {
			_, port, _ := net.SplitHostPort(address)
			if port == "80" {
				client, server := net.Pipe()
				_ = server.Close()
				return client, nil
			}
			<-ctx.Done()
			return nil, ctx.Err()
		})

	start := time.Now()
	res, err := s.Run(context.Background(), "example.com", nil)
	require.NoError(t, err)

	assert.Equal(t, "port_scan", res.Source)
	assert.Equal(t, "open_ports", res.Type)
	assert.Equal(t, []any{80}, res.Data.Items())
	assert.Less(t, time.Since(start), time.Second)
}

func TestRun_AllConnectsConcurrent(t *testing.T) {
	list := []int{8443, 22, 3306, 21, 80}
	s := newScanner(t, map[string]any{"ports": list}).
		WithDialer(func(context.Context, string, string) (net.Conn, error) {
			time.Sleep(50 * time.Millisecond)
			client, server := net.Pipe()
			_ = server.Close()
			return client, nil
		})

	start := time.Now()
	res, err := s.Run(context.Background(), "example.com", nil)
	require.NoError(t, err)

	assert.Equal(t, []any{21, 22, 80, 3306, 8443}, res.Data.Items())
	assert.Less(t, time.Since(start), 200*time.Millisecond)
}

func TestRun_ConcurrencyLimit(t *testing.T) {
	var inFlight, peak int32
	s := newScanner(t, map[string]any{"ports": []int{21, 22, 80, 443, 8080, 8443}, "concurrency": 2}).
		WithDialer(func(context.Context, string, string) (net.Conn, error) {
			n := atomic.AddInt32(&inFlight, 1)
			defer atomic.AddInt32(&inFlight, -1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			return nil, errors.New("connection refused")
		})

	res, err := s.Run(context.Background(), "example.com", nil)
	require.NoError(t, err)
	assert.True(t, res.Data.IsEmpty())
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
	assert.Equal(t, 2, s.limit)
}

func TestRun_RealListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			_ = c.Close()
		}
	}()
	openPort := ln.Addr().(*net.TCPAddr).Port

	closed, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	closedPort := closed.Addr().(*net.TCPAddr).Port
	require.NoError(t, closed.Close())

	s := newScanner(t, map[string]any{
		"ports":   strconv.Itoa(closedPort) + "," + strconv.Itoa(openPort),
		"timeout": "1s",
	})

	res, err := s.Run(context.Background(), "127.0.0.1", nil)
	require.NoError(t, err)
	assert.Equal(t, []any{openPort}, res.Data.Items())
}

func TestRun_NothingOpenIsEmptyResult(t *testing.T) {
	s := newScanner(t, nil).WithDialer(func(context.Context, string, string) (net.Conn, error) {
		return nil, errors.New("connection refused")
	})

	res, err := s.Run(context.Background(), "example.com", nil)
	require.NoError(t, err)
	assert.True(t, res.Data.IsEmpty())
}

func TestRun_CanceledContext(t *testing.T) {
	s := newScanner(t, nil).WithDialer(func(ctx context.Context, _, _ string) (net.Conn, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Run(ctx, "example.com", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_Defaults(t *testing.T) {
	s := newScanner(t, nil)
	assert.Equal(t, DefaultPorts, s.ports)
	assert.Equal(t, 3*time.Second, s.timeout)
	assert.Equal(t, len(DefaultPorts), s.limit)
}

func TestNew_InvalidPorts(t *testing.T) {
	_, err := New(ports.ProbeConfig{Settings: map[string]any{"ports": []int{80, 70000}}}, logx.NewNop())
	assert.Error(t, err)

	_, err = New(ports.ProbeConfig{Settings: map[string]any{"timeout": "-1s"}}, logx.NewNop())
	assert.Error(t, err)

	_, err = New(ports.ProbeConfig{Settings: map[string]any{"concurrency": -3}}, logx.NewNop())
	assert.Error(t, err)
}

func TestRegistered(t *testing.T) {
	probes := registry.Global().Discover(registry.NamespaceRecon, map[string]ports.ProbeConfig{
		key: {Settings: map[string]any{"ports": []any{22, 80}}},
	}, registry.Env{Logger: logx.NewNop()})

	require.Len(t, probes, 1)
	assert.Equal(t, "Port Scanner", probes[0].Name())
	assert.Equal(t, []int{22, 80}, probes[0].(*Scanner).ports)
}
