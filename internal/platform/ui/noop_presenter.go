// internal/platform/ui/noop_presenter.go
package ui

import "redrecon/internal/core/ports"

// NoopPresenter es una implementación vacía del Presenter
// que no produce ninguna salida. Útil para modo quiet o headless.
type NoopPresenter struct{}

// NewNoopPresenter crea una instancia del presenter sin salida
func NewNoopPresenter() *NoopPresenter {
	return &NoopPresenter{}
}

func (n *NoopPresenter) Start(info ScanInfo)                     {}
func (n *NoopPresenter) ProbeSettled(ev ports.ProbeSettledEvent) {}
func (n *NoopPresenter) Info(msg string)                         {}
func (n *NoopPresenter) Warning(msg string)                      {}
func (n *NoopPresenter) Error(msg string)                        {}
func (n *NoopPresenter) Finish(summary Summary)                  {}

// Close no hace nada
func (n *NoopPresenter) Close() error {
	return nil
}
