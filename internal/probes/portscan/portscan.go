// internal/probes/portscan/portscan.go
package portscan

import (
	"context"
	"net"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"redrecon/internal/core/domain"
	"redrecon/internal/core/ports"
	"redrecon/internal/platform/logx"
	"redrecon/internal/platform/registry"
)

const (
	key        = "portscan"
	name       = "Port Scanner"
	source     = "port_scan"
	resultType = "open_ports"

	defaultTimeout = 3 * time.Second
)

// DefaultPorts servicios comunes que se comprueban si no se configura otra lista.
var DefaultPorts = []int{
	21, 22, 23, 25, 53, 80, 110, 139, 143, 443,
	445, 3389, 3306, 5432, 8080, 8443, 5900,
}

func init() {
	if err := registry.Global().Register(
		registry.NamespaceRecon,
		key,
		func(cfg ports.ProbeConfig, env registry.Env) (ports.Probe, error) {
			return New(cfg, env.Logger)
		},
		ports.ProbeMetadata{
			Name:        name,
			Description: "Concurrent TCP connect sweep over common service ports",
			Category:    domain.CategoryActive,
			Source:      source,
			ResultType:  resultType,
			Version:     "1.0.0",
		},
	); err != nil {
		logx.New().Warn("failed to register portscan probe", "error", err.Error())
	}
}

// DialFunc abre una conexión TCP; coincide con net.Dialer.DialContext.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Scanner intenta un connect TCP por puerto, hasta limit a la vez.
type Scanner struct {
	ports   []int
	timeout time.Duration
	limit   int
	dial    DialFunc
	logger  logx.Logger
}

// New crea la probe. Settings: ports, timeout, concurrency (0 = todos los
// puertos a la vez).
func New(cfg ports.ProbeConfig, logger logx.Logger) (*Scanner, error) {
	if logger == nil {
		logger = logx.NewNop()
	}

	portList := registry.GetIntSlice(cfg.Settings, "ports", DefaultPorts)
	if err := registry.ValidatePortRange("ports", portList); err != nil {
		return nil, err
	}
	timeout := registry.GetDuration(cfg.Settings, "timeout", defaultTimeout)
	if err := registry.ValidatePositiveDuration("timeout", timeout); err != nil {
		return nil, err
	}

	limit := registry.GetInt(cfg.Settings, "concurrency", 0)
	if limit < 0 {
		return nil, registry.ValidatePositiveInt("concurrency", limit)
	}
	if limit == 0 || limit > len(portList) {
		limit = len(portList)
	}

	dialer := &net.Dialer{}
	return &Scanner{
		ports:   append([]int(nil), portList...),
		timeout: timeout,
		limit:   limit,
		dial:    dialer.DialContext,
		logger:  logger.With("source", source),
	}, nil
}

// WithDialer reemplaza el dialer (tests).
func (s *Scanner) WithDialer(fn DialFunc) *Scanner {
	s.dial = fn
	return s
}

func (s *Scanner) Name() string              { return name }
func (s *Scanner) Category() domain.Category { return domain.CategoryActive }
func (s *Scanner) Description() string {
	return "Concurrent TCP connect sweep over common service ports"
}

// Run comprueba todos los puertos en paralelo y retorna los abiertos en
// orden ascendente. Un puerto cerrado o que no responde no es un error.
func (s *Scanner) Run(ctx context.Context, target string, _ ports.NetClient) (*domain.ProbeResult, error) {
	s.logger.Debug("starting TCP sweep", "target", target, "ports", len(s.ports))

	var (
		mu   sync.Mutex
		open = make([]int, 0)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.limit, 1))
	for _, port := range s.ports {
		port := port
		g.Go(func() error {
			// una cancelación corta el barrido: los puertos pendientes no se marcan
			if err := gctx.Err(); err != nil {
				return err
			}
			if s.probe(gctx, target, port) {
				mu.Lock()
				open = append(open, port)
				mu.Unlock()
			}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Ints(open)
	open = dedupe(open)

	if len(open) > 0 {
		s.logger.Info("open ports detected", "target", target, "ports", open)
	} else {
		s.logger.Warn("no open ports detected", "target", target)
	}
	return domain.NewProbeResult(source, resultType, domain.ListOf(open)), nil
}

// probe intenta un connect con timeout propio y cierra la conexión.
func (s *Scanner) probe(ctx context.Context, host string, port int) bool {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	conn, err := s.dial(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// dedupe elimina repetidos de un slice ordenado.
func dedupe(sorted []int) []int {
	out := sorted[:0]
	for i, p := range sorted {
		if i == 0 || p != sorted[i-1] {
			out = append(out, p)
		}
	}
	return out
}
