// internal/core/domain/scan_run.go
package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ScanRun es el estado efímero de un escaneo: crece a medida que las probes
// terminan y queda inmutable tras Finalize. Nunca se persiste.
type ScanRun struct {
	// ID identificador único del escaneo
	ID string

	// Target objetivo del escaneo
	Target string

	// StartedAt momento en que empezó la orquestación
	StartedAt time.Time

	// FinishedAt momento de finalización (cero mientras está abierto)
	FinishedAt time.Time

	// Launched nombres de las probes lanzadas
	Launched []string

	// Outcomes registros asentados en orden de completado
	Outcomes []Outcome

	// Interrupted indica que se dejó de esperar antes de drenar el stream
	Interrupted bool

	// Results agregación source -> data
	Results AggregatedResults

	mu        sync.Mutex
	finalized bool
}

// NewScanRun crea un ScanRun abierto.
func NewScanRun(target string, launched []string) *ScanRun {
	l := make([]string, len(launched))
	copy(l, launched)
	return &ScanRun{
		ID:        uuid.NewString(),
		Target:    target,
		StartedAt: time.Now(),
		Launched:  l,
		Outcomes:  make([]Outcome, 0, len(launched)),
		Results:   make(AggregatedResults),
	}
}

// Record añade un outcome asentado. Ignorado tras Finalize.
func (s *ScanRun) Record(o Outcome) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized {
		return false
	}
	s.Outcomes = append(s.Outcomes, o)
	return true
}

// Finalize cierra el run. Llamadas posteriores no tienen efecto.
func (s *ScanRun) Finalize(results AggregatedResults, interrupted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized {
		return
	}
	if results == nil {
		results = make(AggregatedResults)
	}
	s.Results = results
	s.Interrupted = interrupted
	s.FinishedAt = time.Now()
	s.finalized = true
}

// Elapsed retorna el tiempo de pared del escaneo.
func (s *ScanRun) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FinishedAt.IsZero() {
		return time.Since(s.StartedAt)
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Settled retorna cuántas probes han terminado.
func (s *ScanRun) Settled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Outcomes)
}

// Pending retorna las probes lanzadas que no llegaron a asentarse.
func (s *ScanRun) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Launched) - len(s.Outcomes)
}

// Succeeded retorna los resultados exitosos.
func (s *ScanRun) Succeeded() []*ProbeResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*ProbeResult, 0, len(s.Outcomes))
	for _, o := range s.Outcomes {
		if o.OK() {
			out = append(out, o.Result)
		}
	}
	return out
}

// Failed retorna los fallos.
func (s *ScanRun) Failed() []*Failure {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Failure, 0)
	for _, o := range s.Outcomes {
		if !o.OK() && o.Failure != nil {
			out = append(out, o.Failure)
		}
	}
	return out
}
