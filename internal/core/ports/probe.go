// internal/core/ports/probe.go
package ports

import (
	"context"
	"net/url"
	"time"

	"redrecon/internal/core/domain"
)

// Probe es el port primario para todas las técnicas de reconocimiento.
// Las probes no guardan estado entre runs: una única instancia se invoca
// una vez por escaneo.
type Probe interface {
	// Name retorna el nombre visible de la probe (ej: "CRT.sh", "Port Scanner")
	Name() string

	// Category retorna la categoría (recon, active, infra)
	Category() domain.Category

	// Description retorna una descripción corta
	Description() string

	// Run ejecuta la probe contra el target usando el cliente de red compartido.
	// Debe terminar (o fallar) en un tiempo acotado.
	Run(ctx context.Context, target string, client NetClient) (*domain.ProbeResult, error)
}

// NetClient es la vista del cliente de red compartido que reciben las probes.
type NetClient interface {
	// Fetch hace un GET y retorna el payload, o nil ante cualquier fallo de transporte.
	Fetch(ctx context.Context, rawURL string, params url.Values, timeout time.Duration) *domain.Payload
}

// SharedClient es el cliente de red con su ciclo de vida, propiedad del escaneo.
type SharedClient interface {
	NetClient

	// Start prepara el pool de conexiones antes del primer uso
	Start(ctx context.Context) error

	// Close libera todas las conexiones del pool
	Close() error
}

// Offloader ejecuta trabajo bloqueante (resolvers síncronos, whois) en un
// pool acotado y devuelve el resultado por un canal.
type Offloader interface {
	Submit(ctx context.Context, name string, fn func(ctx context.Context) (any, error)) <-chan TaskResult
}

// TaskResult es el resultado de una tarea ejecutada en el Offloader.
type TaskResult struct {
	Name     string
	Value    any
	Err      error
	Duration time.Duration
}

// ProbeConfig contiene la configuración específica de una probe.
type ProbeConfig struct {
	// Enabled nil significa habilitada
	Enabled *bool `mapstructure:"enabled" yaml:"enabled,omitempty"`

	// Settings configuración propia de la probe (ports, timeouts, ...)
	Settings map[string]any `mapstructure:"settings" yaml:"settings,omitempty"`
}

// IsEnabled indica si la probe debe construirse.
func (c ProbeConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// DefaultProbeConfig retorna una configuración por defecto.
func DefaultProbeConfig() ProbeConfig {
	return ProbeConfig{Settings: make(map[string]any)}
}

// ProbeMetadata contiene metadatos sobre una probe registrada.
type ProbeMetadata struct {
	Key         string
	Name        string
	Description string
	Category    domain.Category
	Source      string // clave de agregación que produce
	ResultType  string // subdomains, open_ports, ...
	Version     string
}
