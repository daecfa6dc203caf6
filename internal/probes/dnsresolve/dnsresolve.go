// internal/probes/dnsresolve/dnsresolve.go
package dnsresolve

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"

	"redrecon/internal/core/domain"
	"redrecon/internal/core/ports"
	"redrecon/internal/platform/errors"
	"redrecon/internal/platform/logx"
	"redrecon/internal/platform/registry"
)

const (
	key        = "dnsresolve"
	name       = "DNS Resolver"
	source     = "dns_resolver"
	resultType = "infra_records"

	defaultTimeout = 5 * time.Second
	maxTXTLength   = 80
)

// DefaultNameservers resolvers públicos consultados en orden.
var DefaultNameservers = []string{"1.1.1.1:53", "8.8.8.8:53"}

// recordTypes tipos consultados, en el orden en que aparecen en el resultado.
var recordTypes = []uint16{dns.TypeA, dns.TypeMX, dns.TypeNS, dns.TypeTXT}

func init() {
	if err := registry.Global().Register(
		registry.NamespaceRecon,
		key,
		func(cfg ports.ProbeConfig, env registry.Env) (ports.Probe, error) {
			if env.Pool == nil {
				return nil, fmt.Errorf("%s requires a worker pool", key)
			}
			return New(cfg, env.Pool, env.Logger), nil
		},
		ports.ProbeMetadata{
			Name:        name,
			Description: "Active DNS record resolution (A, MX, NS, TXT)",
			Category:    domain.CategoryInfra,
			Source:      source,
			ResultType:  resultType,
			Version:     "1.0.0",
		},
	); err != nil {
		logx.New().Warn("failed to register dnsresolve probe", "error", err.Error())
	}
}

// ExchangeFunc envía un mensaje a un servidor DNS y retorna la respuesta.
type ExchangeFunc func(ctx context.Context, msg *dns.Msg, server string) (*dns.Msg, error)

// Resolver consulta A, MX, NS y TXT en paralelo, una tarea del worker pool
// por tipo de registro. Un tipo que falla simplemente no aporta líneas.
type Resolver struct {
	nameservers []string
	timeout     time.Duration
	pool        ports.Offloader
	exchange    ExchangeFunc
	logger      logx.Logger
}

// New crea la probe. Settings: nameservers, timeout.
func New(cfg ports.ProbeConfig, pool ports.Offloader, logger logx.Logger) *Resolver {
	if logger == nil {
		logger = logx.NewNop()
	}

	timeout := registry.GetDuration(cfg.Settings, "timeout", defaultTimeout)
	servers := make([]string, 0, len(DefaultNameservers))
	for _, s := range registry.GetStringSlice(cfg.Settings, "nameservers", DefaultNameservers) {
		if _, _, err := net.SplitHostPort(s); err != nil {
			s = net.JoinHostPort(s, "53")
		}
		servers = append(servers, s)
	}

	client := &dns.Client{Timeout: timeout}
	return &Resolver{
		nameservers: servers,
		timeout:     timeout,
		pool:        pool,
		logger:      logger.With("source", source),
		exchange: func(ctx context.Context, msg *dns.Msg, server string) (*dns.Msg, error) {
			in, _, err := client.ExchangeContext(ctx, msg, server)
			return in, err
		},
	}
}

// WithExchange reemplaza el transporte DNS (tests).
func (r *Resolver) WithExchange(fn ExchangeFunc) *Resolver {
	r.exchange = fn
	return r
}

func (r *Resolver) Name() string              { return name }
func (r *Resolver) Category() domain.Category { return domain.CategoryInfra }
func (r *Resolver) Description() string       { return "Active DNS record resolution (A, MX, NS, TXT)" }

// Run lanza una consulta por tipo de registro y las junta en orden fijo.
// Nunca usa el cliente HTTP compartido.
func (r *Resolver) Run(ctx context.Context, target string, _ ports.NetClient) (*domain.ProbeResult, error) {
	fqdn := dns.Fqdn(target)

	replies := make([]<-chan ports.TaskResult, len(recordTypes))
	for i, qtype := range recordTypes {
		qtype := qtype
		replies[i] = r.pool.Submit(ctx, "dns:"+dns.TypeToString[qtype], func(ctx context.Context) (any, error) {
			return r.query(ctx, fqdn, qtype)
		})
	}

	found := make([]string, 0)
	for i, reply := range replies {
		res := <-reply
		if res.Err != nil {
			r.logger.Debug("record lookup failed",
				"type", dns.TypeToString[recordTypes[i]],
				"error", res.Err.Error(),
			)
			continue
		}
		if lines, ok := res.Value.([]string); ok {
			found = append(found, lines...)
		}
	}

	if len(found) == 0 {
		r.logger.Warn("no DNS records returned", "target", target)
	}
	return domain.NewProbeResult(source, resultType, domain.ListOf(found)), nil
}

// query resuelve un tipo contra los nameservers en orden, dentro del
// tiempo de vida total de la consulta.
func (r *Resolver) query(ctx context.Context, fqdn string, qtype uint16) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	msg := new(dns.Msg)
	msg.SetQuestion(fqdn, qtype)
	msg.RecursionDesired = true

	var lastErr error
	for _, server := range r.nameservers {
		in, err := r.exchange(ctx, msg, server)
		if err != nil {
			lastErr = errors.Wrapf(err, "%s via %s", dns.TypeToString[qtype], server)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		switch in.Rcode {
		case dns.RcodeSuccess:
			return formatAnswers(in.Answer, qtype), nil
		case dns.RcodeNameError:
			return nil, fmt.Errorf("%s: %s", dns.TypeToString[qtype], dns.RcodeToString[in.Rcode])
		default:
			lastErr = fmt.Errorf("%s via %s: %s", dns.TypeToString[qtype], server, dns.RcodeToString[in.Rcode])
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no nameservers configured")
	}
	return nil, lastErr
}

// formatAnswers produce las líneas "IP: x", "Mail: host", "NS: host", "TXT: ...".
// Registros de otro tipo (CNAME en la cadena) se ignoran.
func formatAnswers(answers []dns.RR, qtype uint16) []string {
	lines := make([]string, 0, len(answers))
	for _, rr := range answers {
		switch v := rr.(type) {
		case *dns.A:
			if qtype == dns.TypeA {
				lines = append(lines, "IP: "+v.A.String())
			}
		case *dns.MX:
			lines = append(lines, "Mail: "+v.Mx)
		case *dns.NS:
			lines = append(lines, "NS: "+v.Ns)
		case *dns.TXT:
			lines = append(lines, "TXT: "+truncate(strings.ReplaceAll(strings.Join(v.Txt, " "), `"`, ""), maxTXTLength))
		}
	}
	return lines
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
