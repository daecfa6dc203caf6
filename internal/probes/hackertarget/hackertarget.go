// internal/probes/hackertarget/hackertarget.go
package hackertarget

import (
	"context"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"redrecon/internal/core/domain"
	"redrecon/internal/core/ports"
	"redrecon/internal/platform/logx"
	"redrecon/internal/platform/registry"
	"redrecon/internal/platform/validator"
)

const (
	key        = "hackertarget"
	name       = "HackerTarget"
	source     = "hackertarget"
	resultType = "subdomains"

	defaultEndpoint = "https://api.hackertarget.com/hostsearch/"
	defaultTimeout  = 20 * time.Second
)

func init() {
	if err := registry.Global().Register(
		registry.NamespaceRecon,
		key,
		func(cfg ports.ProbeConfig, env registry.Env) (ports.Probe, error) {
			return New(cfg, env.Logger), nil
		},
		ports.ProbeMetadata{
			Name:        name,
			Description: "Passive subdomain aggregation via HackerTarget hostsearch",
			Category:    domain.CategoryRecon,
			Source:      source,
			ResultType:  resultType,
			Version:     "1.0.0",
		},
	); err != nil {
		logx.New().Warn("failed to register hackertarget probe", "error", err.Error())
	}
}

// HackerTarget consulta la API hostsearch (CSV host,ip) y conserva los hosts
// que pertenecen al dominio registrable del target.
type HackerTarget struct {
	endpoint string
	timeout  time.Duration
	logger   logx.Logger
}

// New crea la probe. Settings: endpoint, timeout.
func New(cfg ports.ProbeConfig, logger logx.Logger) *HackerTarget {
	if logger == nil {
		logger = logx.NewNop()
	}
	return &HackerTarget{
		endpoint: registry.GetString(cfg.Settings, "endpoint", defaultEndpoint),
		timeout:  registry.GetDuration(cfg.Settings, "timeout", defaultTimeout),
		logger:   logger.With("source", source),
	}
}

func (h *HackerTarget) Name() string              { return name }
func (h *HackerTarget) Category() domain.Category { return domain.CategoryRecon }
func (h *HackerTarget) Description() string {
	return "Passive subdomain aggregation via HackerTarget hostsearch"
}

// Run ejecuta la consulta. La API responde texto plano; una respuesta vacía
// o con "error" (cuota agotada, parámetro inválido) produce una lista vacía.
func (h *HackerTarget) Run(ctx context.Context, target string, client ports.NetClient) (*domain.ProbeResult, error) {
	text := client.Fetch(ctx, h.endpoint, url.Values{"q": {target}}, h.timeout).Text()

	if strings.TrimSpace(text) == "" || strings.Contains(strings.ToLower(text), "error") {
		h.logger.Warn("hackertarget returned no usable data", "target", target)
		return domain.NewProbeResult(source, resultType, domain.List()), nil
	}

	root := h.rootDomain(target)
	hosts := parseHosts(text, root)

	h.logger.Debug("hackertarget query completed", "target", target, "root", root, "hosts", len(hosts))
	return domain.NewProbeResult(source, resultType, domain.ListOf(hosts)), nil
}

// rootDomain extrae el eTLD+1; si publicsuffix falla usa las dos últimas etiquetas.
func (h *HackerTarget) rootDomain(target string) string {
	target = strings.ToLower(strings.TrimSpace(target))

	eTLDPlusOne, err := publicsuffix.EffectiveTLDPlusOne(target)
	if err == nil {
		return eTLDPlusOne
	}

	h.logger.Debug("failed to extract eTLD+1, using fallback", "target", target, "error", err.Error())
	labels := strings.Split(target, ".")
	if len(labels) >= 2 {
		return strings.Join(labels[len(labels)-2:], ".")
	}
	return target
}

// parseHosts toma la primera columna de cada línea y filtra por root.
func parseHosts(text, root string) []string {
	set := validator.NewHostSet(root)
	for _, line := range strings.Split(text, "\n") {
		host, _, _ := strings.Cut(line, ",")
		set.Add(host)
	}
	return set.Sorted()
}
