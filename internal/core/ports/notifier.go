// internal/core/ports/notifier.go
package ports

import (
	"context"
	"time"

	"redrecon/internal/core/domain"
)

// Notifier es el port para notificaciones de eventos del escaneo.
// Implementa el patrón Observer para desacoplar la orquestación de la UI,
// las métricas y cualquier otro consumidor de progreso.
type Notifier interface {
	// Notify envía una notificación para un evento
	Notify(ctx context.Context, event Event) error

	// Close cierra el notifier y libera recursos
	Close() error
}

// Event representa un evento del escaneo.
type Event struct {
	// Type tipo de evento
	Type EventType

	// Timestamp momento del evento
	Timestamp time.Time

	// ScanID escaneo que generó el evento
	ScanID string

	// Target objetivo del escaneo
	Target string

	// Data datos específicos del evento
	Data any
}

// EventType define los tipos de eventos del escaneo.
type EventType string

const (
	EventTypeScanStarted     EventType = "scan.started"
	EventTypeProbeSettled    EventType = "probe.settled"
	EventTypeScanCompleted   EventType = "scan.completed"
	EventTypeScanInterrupted EventType = "scan.interrupted"
)

// NewEvent crea un nuevo evento.
func NewEvent(eventType EventType, run *domain.ScanRun, data any) Event {
	e := Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	}
	if run != nil {
		e.ScanID = run.ID
		e.Target = run.Target
	}
	return e
}

// ScanStartedEvent datos para evento de inicio de escaneo.
type ScanStartedEvent struct {
	Probes    []string
	StartedAt time.Time
}

// ProbeSettledEvent se emite tras cada outcome asentado. Solo informativo.
type ProbeSettledEvent struct {
	Settled int
	Total   int
	Probe   string
	Source  string
	Type    string
	Status  domain.Status
	Count   int
	Elapsed time.Duration
	Err     error
}

// ScanCompletedEvent datos para evento de finalización (o interrupción) de escaneo.
type ScanCompletedEvent struct {
	Settled     int
	Total       int
	Succeeded   int
	Failed      int
	Duration    time.Duration
	Interrupted bool
	Rows        []domain.SummaryRow
}
