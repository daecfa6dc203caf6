// internal/platform/ui/presenter.go
package ui

import (
	"time"

	"redrecon/internal/core/domain"
	"redrecon/internal/core/ports"
)

// Presenter define la interfaz para presentar el progreso de un escaneo
// en la terminal. Solo consume eventos: no participa en la orquestación.
type Presenter interface {
	// Start muestra el banner y los parámetros de la misión
	Start(info ScanInfo)

	// ProbeSettled avanza el progreso tras cada outcome asentado
	ProbeSettled(ev ports.ProbeSettledEvent)

	// Info muestra un mensaje informativo
	Info(msg string)

	// Warning muestra una advertencia
	Warning(msg string)

	// Error muestra un error
	Error(msg string)

	// Finish muestra la tabla de resultados y el tiempo total
	Finish(summary Summary)

	// Close limpia recursos del presenter
	Close() error
}

// ScanInfo contiene información inicial del escaneo
type ScanInfo struct {
	ScanID    string
	Target    string
	StartedAt time.Time
	Probes    []string
	Version   string
}

// Summary contiene el resultado final del escaneo
type Summary struct {
	Rows        []domain.SummaryRow
	Duration    time.Duration
	Succeeded   int
	Failed      int
	Interrupted bool
}
