// internal/core/domain/errors.go
package domain

import "errors"

// Errores de dominio comunes.
var (
	// Target errors
	ErrEmptyTarget = errors.New("target cannot be empty")

	// Probe errors
	ErrProbePanic    = errors.New("probe panicked")
	ErrInvalidResult = errors.New("probe returned an invalid result")

	// Scan errors
	ErrNoProbes         = errors.New("no probes available for scan")
	ErrNamespaceUnknown = errors.New("probe namespace not registered")
	ErrScanInterrupted  = errors.New("scan was interrupted")

	// Network client errors
	ErrClientClosed = errors.New("network client already closed")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")

	// Report errors
	ErrUnsupportedFormat = errors.New("unsupported report format")
)
