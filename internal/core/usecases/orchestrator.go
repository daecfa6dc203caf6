// internal/core/usecases/orchestrator.go
package usecases

import (
	"context"
	"fmt"
	"sync"
	"time"

	"redrecon/internal/core/domain"
	"redrecon/internal/core/ports"
	"redrecon/internal/platform/errors"
	"redrecon/internal/platform/logx"
)

// Orchestrator lanza todas las probes a la vez y entrega sus outcomes en
// orden de completado. No cancela hermanas ni impone timeout global.
type Orchestrator struct {
	logger logx.Logger
}

// OrchestratorOptions configura el orchestrator.
type OrchestratorOptions struct {
	Logger logx.Logger
}

// NewOrchestrator crea una nueva instancia del orchestrator.
func NewOrchestrator(opts OrchestratorOptions) *Orchestrator {
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}
	return &Orchestrator{
		logger: opts.Logger.With("component", "orchestrator"),
	}
}

// Run lanza una goroutine por probe y retorna el stream de outcomes.
// El canal recibe exactamente len(probes) valores y luego se cierra.
// Todas las probes arrancan antes de que el llamador consuma el primero.
func (o *Orchestrator) Run(
	ctx context.Context,
	target string,
	probes []ports.Probe,
	client ports.NetClient,
) <-chan domain.Outcome {
	// buffer completo: ninguna probe se bloquea si el llamador deja de leer
	out := make(chan domain.Outcome, len(probes))

	var wg sync.WaitGroup
	wg.Add(len(probes))
	for _, p := range probes {
		go func(p ports.Probe) {
			defer wg.Done()
			out <- o.execute(ctx, p, target, client)
		}(p)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	o.logger.Debug("probes launched", "count", len(probes), "target", target)
	return out
}

// execute ejecuta una probe aislando errores y panics.
func (o *Orchestrator) execute(
	ctx context.Context,
	p ports.Probe,
	target string,
	client ports.NetClient,
) (outcome domain.Outcome) {
	name := probeName(p)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %w", domain.ErrProbePanic, errors.Recovered(r))
			o.logger.Warn("probe panicked", "probe", name, "panic", fmt.Sprint(r))
			outcome = domain.Failed(name, err, time.Since(start))
		}
	}()

	o.logger.Debug("probe starting", "probe", name)

	result, err := p.Run(ctx, target, client)
	elapsed := time.Since(start)

	if err != nil {
		o.logger.Warn("probe failed", "probe", name, "error", err.Error(), "duration", elapsed)
		return domain.Failed(name, err, elapsed)
	}
	if err := result.Validate(); err != nil {
		o.logger.Warn("probe returned invalid result", "probe", name, "error", err.Error())
		return domain.Failed(name, err, elapsed)
	}

	o.logger.Debug("probe completed",
		"probe", name,
		"source", result.Source,
		"count", result.Data.Len(),
		"duration", elapsed,
	)
	return domain.Succeeded(name, result, elapsed)
}

// probeName obtiene el nombre sin dejar que un panic en Name() escape.
func probeName(p ports.Probe) (name string) {
	defer func() {
		if recover() != nil {
			name = fmt.Sprintf("%T", p)
		}
	}()
	return p.Name()
}
