// internal/probes/crtsh/crtsh.go
package crtsh

import (
	"context"
	"net/url"
	"strings"
	"time"

	"redrecon/internal/core/domain"
	"redrecon/internal/core/ports"
	"redrecon/internal/platform/logx"
	"redrecon/internal/platform/registry"
	"redrecon/internal/platform/validator"
)

const (
	key        = "crtsh"
	name       = "CRT.sh"
	source     = "crt.sh"
	resultType = "subdomains"

	defaultEndpoint = "https://crt.sh/"
	defaultTimeout  = 25 * time.Second
)

// Auto-registro de la probe al importar el package
func init() {
	if err := registry.Global().Register(
		registry.NamespaceRecon,
		key,
		func(cfg ports.ProbeConfig, env registry.Env) (ports.Probe, error) {
			return New(cfg, env.Logger), nil
		},
		ports.ProbeMetadata{
			Name:        name,
			Description: "Certificate Transparency log search via crt.sh",
			Category:    domain.CategoryRecon,
			Source:      source,
			ResultType:  resultType,
			Version:     "1.0.0",
		},
	); err != nil {
		logx.New().Warn("failed to register crtsh probe", "error", err.Error())
	}
}

// CRT consulta los logs de Certificate Transparency en crt.sh y extrae los
// nombres de host bajo el target.
type CRT struct {
	endpoint string
	timeout  time.Duration
	logger   logx.Logger
}

// New crea la probe. Settings: endpoint, timeout.
func New(cfg ports.ProbeConfig, logger logx.Logger) *CRT {
	if logger == nil {
		logger = logx.NewNop()
	}
	return &CRT{
		endpoint: registry.GetString(cfg.Settings, "endpoint", defaultEndpoint),
		timeout:  registry.GetDuration(cfg.Settings, "timeout", defaultTimeout),
		logger:   logger.With("source", source),
	}
}

func (c *CRT) Name() string              { return name }
func (c *CRT) Category() domain.Category { return domain.CategoryRecon }
func (c *CRT) Description() string       { return "Certificate Transparency log search via crt.sh" }

// Run ejecuta la consulta. Una respuesta vacía, HTML o que no sea una lista
// JSON produce un resultado vacío, nunca un error.
func (c *CRT) Run(ctx context.Context, target string, client ports.NetClient) (*domain.ProbeResult, error) {
	c.logger.Debug("starting crtsh query", "target", target)

	params := url.Values{
		"q":      {"%." + target},
		"output": {"json"},
	}
	payload := client.Fetch(ctx, c.endpoint, params, c.timeout)

	if !payload.IsStructured() {
		// crt.sh devuelve HTML cuando está saturado
		c.logger.Debug("crtsh returned no JSON", "target", target, "bytes", len(payload.Text()))
		return domain.NewProbeResult(source, resultType, domain.List()), nil
	}

	var records []certRecord
	if err := payload.Decode(&records); err != nil {
		c.logger.Debug("unexpected crtsh payload shape", "error", err.Error())
		return domain.NewProbeResult(source, resultType, domain.List()), nil
	}

	hosts := extractHosts(records, target)
	c.logger.Debug("crtsh query completed", "target", target, "records", len(records), "hosts", len(hosts))

	return domain.NewProbeResult(source, resultType, domain.ListOf(hosts)), nil
}

// extractHosts separa name_value por líneas, normaliza, quita "*." y se
// queda con los nombres iguales al target o bajo él. Ordenado y sin repetir.
func extractHosts(records []certRecord, target string) []string {
	set := validator.NewHostSet(target)
	for _, rec := range records {
		for _, host := range strings.Split(rec.NameValue, "\n") {
			set.Add(host)
		}
	}
	return set.Sorted()
}

// certRecord representa un registro de certificado de crt.sh.
type certRecord struct {
	IssuerName string `json:"issuer_name"`
	NameValue  string `json:"name_value"`
	NotAfter   string `json:"not_after"`
}
