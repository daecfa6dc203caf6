// internal/platform/ui/notifier.go
package ui

import (
	"context"

	"redrecon/internal/core/ports"
)

// ProgressNotifier adapta los eventos del escaneo a un Presenter.
type ProgressNotifier struct {
	presenter Presenter
	version   string
}

// NewProgressNotifier crea el puente evento -> presenter.
func NewProgressNotifier(p Presenter, version string) *ProgressNotifier {
	if p == nil {
		p = NewNoopPresenter()
	}
	return &ProgressNotifier{presenter: p, version: version}
}

// Notify implementa ports.Notifier.
func (n *ProgressNotifier) Notify(ctx context.Context, event ports.Event) error {
	switch data := event.Data.(type) {
	case ports.ScanStartedEvent:
		n.presenter.Start(ScanInfo{
			ScanID:    event.ScanID,
			Target:    event.Target,
			StartedAt: data.StartedAt,
			Probes:    data.Probes,
			Version:   n.version,
		})
	case ports.ProbeSettledEvent:
		n.presenter.ProbeSettled(data)
	case ports.ScanCompletedEvent:
		n.presenter.Finish(Summary{
			Rows:        data.Rows,
			Duration:    data.Duration,
			Succeeded:   data.Succeeded,
			Failed:      data.Failed,
			Interrupted: data.Interrupted || event.Type == ports.EventTypeScanInterrupted,
		})
	}
	return nil
}

// Close cierra el presenter subyacente.
func (n *ProgressNotifier) Close() error {
	return n.presenter.Close()
}

var _ ports.Notifier = (*ProgressNotifier)(nil)
