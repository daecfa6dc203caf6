// internal/core/domain/probe_result.go
package domain

import (
	"fmt"
	"sort"
	"time"
)

// ProbeResult es lo que una probe produce cuando termina correctamente.
type ProbeResult struct {
	// Source identificador estable, usado como clave de agregación
	Source string `json:"source" yaml:"source"`

	// Type categoría semántica del payload (subdomains, open_ports, ...)
	Type string `json:"type" yaml:"type"`

	// Data hallazgos; puede estar vacío pero nunca ausente
	Data Data `json:"data" yaml:"data"`
}

// NewProbeResult crea un resultado.
func NewProbeResult(source, typ string, data Data) *ProbeResult {
	return &ProbeResult{Source: source, Type: typ, Data: data}
}

// Validate verifica que el resultado sea reportable.
func (r *ProbeResult) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil result", ErrInvalidResult)
	}
	if r.Source == "" {
		return fmt.Errorf("%w: empty source", ErrInvalidResult)
	}
	return nil
}

// Failure registra una probe que terminó con error o panic.
// No lleva Source: el resultado no es fiable en ese punto.
type Failure struct {
	// Probe nombre de la probe que falló (solo informativo)
	Probe string

	// Err causa
	Err error

	// Elapsed tiempo que tardó en fallar
	Elapsed time.Duration
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("probe %q failed", f.Probe)
	}
	return fmt.Sprintf("probe %q failed: %v", f.Probe, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Outcome es un registro asentado del stream de completado:
// exactamente uno de Result o Failure está presente.
type Outcome struct {
	Result  *ProbeResult
	Failure *Failure

	// Probe nombre de la probe que lo produjo
	Probe string

	// Elapsed duración de la probe
	Elapsed time.Duration
}

// Succeeded crea un Outcome exitoso.
func Succeeded(probe string, result *ProbeResult, elapsed time.Duration) Outcome {
	return Outcome{Result: result, Probe: probe, Elapsed: elapsed}
}

// Failed crea un Outcome fallido.
func Failed(probe string, err error, elapsed time.Duration) Outcome {
	return Outcome{
		Failure: &Failure{Probe: probe, Err: err, Elapsed: elapsed},
		Probe:   probe,
		Elapsed: elapsed,
	}
}

// OK indica si el outcome es un resultado.
func (o Outcome) OK() bool {
	return o.Result != nil && o.Failure == nil
}

// Status resume el outcome para la UI.
func (o Outcome) Status() Status {
	switch {
	case !o.OK():
		return StatusFailed
	case o.Result.Data.IsEmpty():
		return StatusEmpty
	default:
		return StatusSuccess
	}
}

// Source retorna la fuente del resultado, vacío si falló.
func (o Outcome) Source() string {
	if o.OK() {
		return o.Result.Source
	}
	return ""
}

// AggregatedResults mapea source -> data. Una entrada por probe exitosa.
type AggregatedResults map[string]Data

// Sources retorna las claves en orden determinista.
func (a AggregatedResults) Sources() []string {
	out := make([]string, 0, len(a))
	for k := range a {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
