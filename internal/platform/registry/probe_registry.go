// internal/platform/registry/probe_registry.go
package registry

import (
	"fmt"
	"sort"
	"sync"

	"redrecon/internal/core/domain"
	"redrecon/internal/core/ports"
	"redrecon/internal/platform/errors"
	"redrecon/internal/platform/logx"
)

// NamespaceRecon es el namespace donde se registran las probes de reconocimiento.
const NamespaceRecon = "recon"

// Env son las dependencias que una factory puede inyectar en su probe.
type Env struct {
	Logger logx.Logger
	Pool   ports.Offloader
}

// ProbeFactory es una función que crea una instancia de Probe.
type ProbeFactory func(cfg ports.ProbeConfig, env Env) (ports.Probe, error)

type registration struct {
	key     string
	factory ProbeFactory
	meta    ports.ProbeMetadata
}

// ProbeRegistry gestiona el registro y construcción de probes.
// Es la tabla estática que sustituye al descubrimiento por introspección:
// cada paquete de probe se registra desde su init().
type ProbeRegistry struct {
	mu         sync.RWMutex
	namespaces map[string][]registration
	logger     logx.Logger
}

// globalRegistry es la instancia global del registry.
var globalRegistry *ProbeRegistry
var once sync.Once

// Global retorna la instancia global del registry.
func Global() *ProbeRegistry {
	once.Do(func() {
		globalRegistry = NewProbeRegistry(logx.New())
	})
	return globalRegistry
}

// NewProbeRegistry crea un nuevo registry de probes.
func NewProbeRegistry(logger logx.Logger) *ProbeRegistry {
	return &ProbeRegistry{
		namespaces: make(map[string][]registration),
		logger:     logger.With("component", "probe-registry"),
	}
}

// Register registra una probe factory con su metadata en un namespace.
// Típicamente llamado desde init() de cada paquete de probe.
func (r *ProbeRegistry) Register(namespace, key string, factory ProbeFactory, meta ports.ProbeMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if namespace == "" {
		return fmt.Errorf("namespace cannot be empty")
	}
	if key == "" {
		return fmt.Errorf("probe key cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil for probe %s", key)
	}

	for _, reg := range r.namespaces[namespace] {
		if reg.key == key {
			return fmt.Errorf("probe %s is already registered in %s", key, namespace)
		}
	}

	meta.Key = key
	r.namespaces[namespace] = append(r.namespaces[namespace], registration{
		key:     key,
		factory: factory,
		meta:    meta,
	})
	r.logger.Debug("probe registered", "namespace", namespace, "key", key, "category", meta.Category)
	return nil
}

// Discover instancia una probe por registro habilitado, en orden de registro.
// Un fallo (error o panic) de una factory se registra en el log y la probe se
// omite; nunca aborta el descubrimiento de las demás. Un namespace
// desconocido o vacío produce un slice vacío: decidir si eso es fatal es
// responsabilidad del llamador.
func (r *ProbeRegistry) Discover(namespace string, configs map[string]ports.ProbeConfig, env Env) []ports.Probe {
	r.mu.RLock()
	regs := append([]registration(nil), r.namespaces[namespace]...)
	r.mu.RUnlock()

	if env.Logger == nil {
		env.Logger = r.logger
	}

	if len(regs) == 0 {
		r.logger.Warn("no probes registered", "namespace", namespace, "error", domain.ErrNamespaceUnknown.Error())
		return []ports.Probe{}
	}

	probes := make([]ports.Probe, 0, len(regs))
	index := make(map[string]int, len(regs))

	for _, reg := range regs {
		cfg, ok := configs[reg.key]
		if !ok {
			cfg = ports.DefaultProbeConfig()
		}
		if !cfg.IsEnabled() {
			r.logger.Debug("probe disabled, skipping", "key", reg.key)
			continue
		}
		if cfg.Settings == nil {
			cfg.Settings = map[string]any{}
		}

		probe, name, err := r.build(reg, cfg, env)
		if err != nil {
			r.logger.Warn("probe omitted", "key", reg.key, "error", err.Error())
			continue
		}

		if prev, dup := index[name]; dup {
			r.logger.Warn("duplicate probe name, keeping the later instance", "name", name, "key", reg.key)
			probes = append(probes[:prev], probes[prev+1:]...)
			for n, i := range index {
				if i > prev {
					index[n] = i - 1
				}
			}
		}
		index[name] = len(probes)
		probes = append(probes, probe)
	}

	r.logger.Debug("probes discovered", "namespace", namespace, "count", len(probes), "registered", len(regs))
	return probes
}

// build aísla la factory y el Name() de la probe construida: un panic se
// convierte en error.
func (r *ProbeRegistry) build(reg registration, cfg ports.ProbeConfig, env Env) (probe ports.Probe, name string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			probe, name = nil, ""
			err = errors.Wrapf(errors.Recovered(rec), "factory for %s", reg.key)
		}
	}()

	probeEnv := env
	probeEnv.Logger = env.Logger.With("probe", reg.key)

	probe, err = reg.factory(cfg, probeEnv)
	if err != nil {
		return nil, "", errors.Wrapf(err, "failed to build probe %s", reg.key)
	}
	if probe == nil {
		return nil, "", fmt.Errorf("factory for %s returned a nil probe", reg.key)
	}
	return probe, probe.Name(), nil
}

// List retorna las claves registradas en un namespace, ordenadas.
func (r *ProbeRegistry) List(namespace string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.namespaces[namespace]))
	for _, reg := range r.namespaces[namespace] {
		keys = append(keys, reg.key)
	}
	sort.Strings(keys)
	return keys
}

// Metadata retorna el metadata de todas las probes de un namespace, en orden de registro.
func (r *ProbeRegistry) Metadata(namespace string) []ports.ProbeMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ports.ProbeMetadata, 0, len(r.namespaces[namespace]))
	for _, reg := range r.namespaces[namespace] {
		out = append(out, reg.meta)
	}
	return out
}

// GetMetadata retorna el metadata de una probe.
func (r *ProbeRegistry) GetMetadata(namespace, key string) (ports.ProbeMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, reg := range r.namespaces[namespace] {
		if reg.key == key {
			return reg.meta, true
		}
	}
	return ports.ProbeMetadata{}, false
}

// IsRegistered verifica si una probe está registrada.
func (r *ProbeRegistry) IsRegistered(namespace, key string) bool {
	_, ok := r.GetMetadata(namespace, key)
	return ok
}

// Clear elimina todas las probes registradas (útil para testing).
func (r *ProbeRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.namespaces = make(map[string][]registration)
}
