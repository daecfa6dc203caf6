// internal/core/usecases/scanner.go
package usecases

import (
	"context"
	"fmt"
	"sync"
	"time"

	"redrecon/internal/core/domain"
	"redrecon/internal/core/ports"
	"redrecon/internal/platform/logx"
)

// defaultNotifyTimeout tiempo máximo que se espera a un observer por evento.
const defaultNotifyTimeout = 5 * time.Second

// Scanner ejecuta un escaneo completo: abre el cliente compartido, lanza las
// probes, agrega el stream y notifica el progreso a los observers.
type Scanner struct {
	probes        []ports.Probe
	client        ports.SharedClient
	orchestrator  *Orchestrator
	logger        logx.Logger
	observers     []ports.Notifier
	notifyTimeout time.Duration
	scanTimeout   time.Duration
}

// ScannerOptions configura el scanner.
type ScannerOptions struct {
	Probes    []ports.Probe
	Client    ports.SharedClient
	Logger    logx.Logger
	Observers []ports.Notifier

	// NotifyTimeout límite por notificación (default 5s)
	NotifyTimeout time.Duration

	// ScanTimeout deja de esperar tras este tiempo (0 = sin límite)
	ScanTimeout time.Duration
}

// NewScanner crea un scanner.
func NewScanner(opts ScannerOptions) *Scanner {
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = defaultNotifyTimeout
	}

	return &Scanner{
		probes:        opts.Probes,
		client:        opts.Client,
		orchestrator:  NewOrchestrator(OrchestratorOptions{Logger: opts.Logger}),
		logger:        opts.Logger.With("component", "scanner"),
		observers:     opts.Observers,
		notifyTimeout: opts.NotifyTimeout,
		scanTimeout:   opts.ScanTimeout,
	}
}

// Scan ejecuta todas las probes contra target.
//
// Si ctx se cancela (o vence ScanTimeout) antes de drenar el stream, el run
// se finaliza con lo asentado hasta ese momento, Interrupted queda en true y
// se retorna junto a domain.ErrScanInterrupted.
func (s *Scanner) Scan(ctx context.Context, target string) (*domain.ScanRun, error) {
	if target == "" {
		return nil, domain.ErrEmptyTarget
	}
	if len(s.probes) == 0 {
		return nil, domain.ErrNoProbes
	}
	if s.client == nil {
		return nil, fmt.Errorf("%w: nil network client", domain.ErrInvalidConfig)
	}

	if err := s.client.Start(ctx); err != nil {
		return nil, fmt.Errorf("start network client: %w", err)
	}
	defer func() {
		if err := s.client.Close(); err != nil {
			s.logger.Warn("closing network client", "error", err.Error())
		}
	}()

	names := make([]string, 0, len(s.probes))
	for _, p := range s.probes {
		names = append(names, probeName(p))
	}

	run := domain.NewScanRun(target, names)
	s.logger.Info("scan started", "scan_id", run.ID, "target", target, "probes", len(names))
	s.notify(ctx, ports.NewEvent(ports.EventTypeScanStarted, run, ports.ScanStartedEvent{
		Probes:    names,
		StartedAt: run.StartedAt,
	}))

	waitCtx := ctx
	if s.scanTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, s.scanTimeout)
		defer cancel()
	}

	// las probes que sigan corriendo al dejar de esperar se cancelan
	runCtx, cancelRun := context.WithCancel(waitCtx)
	defer cancelRun()

	agg := NewAggregator(s.logger)
	stream := s.orchestrator.Run(runCtx, target, s.probes, s.client)
	interrupted := s.collect(waitCtx, run, stream, agg)

	run.Finalize(agg.Results(), interrupted)

	rows := domain.Summarize(run.Outcomes)
	completed := ports.ScanCompletedEvent{
		Settled:     run.Settled(),
		Total:       len(run.Launched),
		Succeeded:   len(run.Succeeded()),
		Failed:      len(run.Failed()),
		Duration:    run.Elapsed(),
		Interrupted: interrupted,
		Rows:        rows,
	}

	if interrupted {
		s.logger.Warn("scan interrupted",
			"scan_id", run.ID,
			"settled", completed.Settled,
			"pending", run.Pending(),
		)
		// ctx puede estar cancelado: las notificaciones finales usan uno propio
		s.notify(context.WithoutCancel(ctx), ports.NewEvent(ports.EventTypeScanInterrupted, run, completed))
		return run, domain.ErrScanInterrupted
	}

	s.logger.Info("scan completed",
		"scan_id", run.ID,
		"sources", len(run.Results),
		"failed", completed.Failed,
		"duration", completed.Duration,
	)
	s.notify(ctx, ports.NewEvent(ports.EventTypeScanCompleted, run, completed))
	return run, nil
}

// collect drena el stream en orden de completado. Retorna true si se dejó
// de esperar antes de que el stream se cerrara.
func (s *Scanner) collect(
	ctx context.Context,
	run *domain.ScanRun,
	stream <-chan domain.Outcome,
	agg *Aggregator,
) bool {
	total := len(run.Launched)
	for {
		// la cancelación tiene prioridad sobre outcomes ya en el buffer
		if ctx.Err() != nil {
			return true
		}
		select {
		case <-ctx.Done():
			return true
		case o, ok := <-stream:
			if !ok {
				return false
			}
			run.Record(o)
			agg.Add(o)
			s.notify(ctx, ports.NewEvent(ports.EventTypeProbeSettled, run, settledEvent(o, run.Settled(), total)))
		}
	}
}

func settledEvent(o domain.Outcome, settled, total int) ports.ProbeSettledEvent {
	ev := ports.ProbeSettledEvent{
		Settled: settled,
		Total:   total,
		Probe:   o.Probe,
		Status:  o.Status(),
		Elapsed: o.Elapsed,
	}
	if o.OK() {
		ev.Source = o.Result.Source
		ev.Type = o.Result.Type
		ev.Count = o.Result.Data.Len()
	} else if o.Failure != nil {
		ev.Err = o.Failure.Err
	}
	return ev
}

// notify envía el evento a todos los observers en paralelo y espera a que
// terminen (o venza el timeout), de modo que cada observer recibe los
// eventos en orden.
func (s *Scanner) notify(ctx context.Context, event ports.Event) {
	if len(s.observers) == 0 {
		return
	}

	var wg sync.WaitGroup
	for _, observer := range s.observers {
		wg.Add(1)
		go func(notifier ports.Notifier) {
			defer wg.Done()

			notifyCtx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
			defer cancel()

			done := make(chan error, 1)
			go func() {
				done <- notifier.Notify(notifyCtx, event)
			}()

			select {
			case err := <-done:
				if err != nil {
					s.logger.Warn("notification failed", "event_type", event.Type, "error", err.Error())
				}
			case <-notifyCtx.Done():
				if notifyCtx.Err() == context.DeadlineExceeded {
					s.logger.Warn("notification timeout exceeded",
						"timeout", s.notifyTimeout,
						"event_type", event.Type,
					)
				}
			}
		}(observer)
	}
	wg.Wait()
}
