// internal/probes/whois/whois.go
package whois

import (
	"context"
	"fmt"
	"strings"
	"time"

	lwhois "github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"

	"redrecon/internal/core/domain"
	"redrecon/internal/core/ports"
	"redrecon/internal/platform/errors"
	"redrecon/internal/platform/logx"
	"redrecon/internal/platform/registry"
)

const (
	key        = "whois"
	name       = "WHOIS"
	source     = "whois"
	resultType = "registration"

	defaultTimeout = 15 * time.Second
)

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
			Description: "Domain registration data via WHOIS",
			Category:    domain.CategoryRecon,
			Source:      source,
			ResultType:  resultType,
			Version:     "1.0.0",
		},
	); err != nil {
		logx.New().Warn("failed to register whois probe", "error", err.Error())
	}
}

// LookupFunc obtiene la respuesta WHOIS cruda de un dominio. Es bloqueante.
type LookupFunc func(domain string) (string, error)

// Lookup consulta WHOIS en el worker pool y devuelve los campos de registro
// como mapping.
type Lookup struct {
	timeout time.Duration
	server  string
	pool    ports.Offloader
	lookup  LookupFunc
	logger  logx.Logger
}

// New crea la probe. Settings: timeout, server.
func New(cfg ports.ProbeConfig, pool ports.Offloader, logger logx.Logger) *Lookup {
	if logger == nil {
		logger = logx.NewNop()
	}

	l := &Lookup{
		timeout: registry.GetDuration(cfg.Settings, "timeout", defaultTimeout),
		server:  registry.GetString(cfg.Settings, "server", ""),
		pool:    pool,
		logger:  logger.With("source", source),
	}

	client := lwhois.NewClient().SetTimeout(l.timeout)
	l.lookup = func(d string) (string, error) {
		if l.server != "" {
			return client.Whois(d, l.server)
		}
		return client.Whois(d)
	}
	return l
}

// WithLookup reemplaza el cliente WHOIS (tests).
func (l *Lookup) WithLookup(fn LookupFunc) *Lookup {
	l.lookup = fn
	return l
}

func (l *Lookup) Name() string              { return name }
func (l *Lookup) Category() domain.Category { return domain.CategoryRecon }
func (l *Lookup) Description() string       { return "Domain registration data via WHOIS" }

// Run hace la consulta. Un dominio sin registro produce un mapping vacío;
// un fallo de red es un error de la probe.
func (l *Lookup) Run(ctx context.Context, target string, _ ports.NetClient) (*domain.ProbeResult, error) {
	res := <-l.pool.Submit(ctx, "whois:"+target, func(context.Context) (any, error) {
		return l.lookup(target)
	})
	if res.Err != nil {
		return nil, errors.Wrapf(errors.Classify(res.Err), "whois lookup for %s", target)
	}

	raw, _ := res.Value.(string)
	info, err := whoisparser.Parse(raw)
	if err != nil {
		if errors.Is(err, whoisparser.ErrNotFoundDomain) {
			l.logger.Debug("domain not registered", "target", target)
		} else {
			l.logger.Debug("whois response not parseable", "target", target, "error", err.Error())
		}
		return domain.NewProbeResult(source, resultType, domain.Mapping(map[string]any{})), nil
	}

	fields := registrationFields(info)
	l.logger.Debug("whois lookup completed", "target", target, "fields", len(fields), "duration", res.Duration)
	return domain.NewProbeResult(source, resultType, domain.Mapping(fields)), nil
}

// registrationFields aplana WhoisInfo a pares de texto; solo campos presentes.
func registrationFields(info whoisparser.WhoisInfo) map[string]any {
	fields := make(map[string]any)
	put := func(k, v string) {
		if v = strings.TrimSpace(v); v != "" {
			fields[k] = v
		}
	}

	if d := info.Domain; d != nil {
		put("domain", d.Domain)
		put("created", d.CreatedDate)
		put("updated", d.UpdatedDate)
		put("expires", d.ExpirationDate)
		put("name_servers", strings.Join(d.NameServers, ", "))
		put("status", strings.Join(d.Status, ", "))
		if d.DNSSec {
			fields["dnssec"] = "signed"
		}
	}
	if r := info.Registrar; r != nil {
		put("registrar", r.Name)
	}
	if r := info.Registrant; r != nil {
		put("registrant_org", r.Organization)
		put("registrant_country", r.Country)
	}
	return fields
}
