// internal/platform/ui/pterm_presenter.go
package ui

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/pterm/pterm"

	"redrecon/internal/core/ports"
)

// PTermPresenter implementa Presenter usando la biblioteca pterm:
// banner, panel de misión, barra de progreso y tabla final.
type PTermPresenter struct {
	mu sync.Mutex

	bar   *pterm.ProgressbarPrinter
	total int
}

// NewPTermPresenter crea una nueva instancia del presenter con pterm
func NewPTermPresenter() *PTermPresenter {
	return &PTermPresenter{}
}

// Start muestra el banner, los parámetros de la misión y arranca la barra
func (p *PTermPresenter) Start(info ScanInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.Println(StylePrimary.Sprint(Banner))
	pterm.DefaultCenter.Println(StyleSecondary.Sprint(fmt.Sprintf(Tagline, info.Version)))
	pterm.Println(StylePrimary.Sprint(SeparatorLight))
	pterm.Println()

	mission := fmt.Sprintf("%s %s %s\n", IconTarget, pterm.Bold.Sprint("TARGET SYSTEM:"), StyleAccent.Sprint(info.Target))
	mission += fmt.Sprintf("%s %s %s\n", IconTime, pterm.Bold.Sprint("START TIME:"), info.StartedAt.Format("15:04:05"))
	mission += fmt.Sprintf("%s %s %d (%s)\n", IconPlugins, pterm.Bold.Sprint("ACTIVE PLUGINS:"), len(info.Probes), joinProbes(info.Probes))
	mission += fmt.Sprintf("%s %s %s", IconOpsec, pterm.Bold.Sprint("OPSEC LEVEL:"), StylePrimary.Sprint(OpsecLevel))

	pterm.DefaultBox.
		WithTitle(StyleWarning.Sprint(TitleMission)).
		WithTitleTopCenter().
		WithRightPadding(2).
		WithLeftPadding(2).
		WithBoxStyle(pterm.NewStyle(pterm.FgRed)).
		Println(mission)
	pterm.Println()

	p.total = len(info.Probes)
	if p.total == 0 {
		return
	}
	bar, err := pterm.DefaultProgressbar.
		WithTotal(p.total).
		WithTitle("Initializing Async Engine...").
		WithRemoveWhenDone(true).
		Start()
	if err == nil {
		p.bar = bar
	}
}

// ProbeSettled avanza la barra con el nombre del source cosechado
func (p *PTermPresenter) ProbeSettled(ev ports.ProbeSettledEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		return
	}
	p.bar.UpdateTitle(progressTitle(ev.Source, ev.Probe))
	p.bar.Increment()
}

// Info muestra un mensaje informativo
func (p *PTermPresenter) Info(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.Info.Println(msg)
}

// Warning muestra una advertencia
func (p *PTermPresenter) Warning(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.Warning.Println(msg)
}

// Error muestra un error
func (p *PTermPresenter) Error(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.Error.Println(msg)
}

// Finish muestra la tabla de inteligencia y el tiempo total
func (p *PTermPresenter) Finish(summary Summary) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopBar()
	pterm.Println()

	if summary.Interrupted {
		pterm.Println(StylePrimary.Sprint("[!] " + MsgInterrupt))
		pterm.Println()
	}

	tableData := pterm.TableData{
		{"Plugin", "Type", "Data Points", "Status"},
	}
	for _, row := range summary.Rows {
		status := pterm.NewStyle(statusColor(row.Status)).Sprint(statusSymbol(row.Status) + " " + row.Status.String())
		tableData = append(tableData, []string{
			StyleAccent.Sprint(row.Source),
			pterm.Magenta(row.Type),
			row.Content,
			status,
		})
	}

	pterm.DefaultSection.Println(StylePrimary.Sprint(TitleResults))
	_ = pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithRowSeparator("-").
		WithData(tableData).
		Render()

	pterm.Println()
	pterm.Println(StyleSecondary.Sprint(fmt.Sprintf("Scan finished in %.2fs", summary.Duration.Seconds())))
	if summary.Failed > 0 {
		pterm.Println(StyleSecondary.Sprint(strconv.Itoa(summary.Failed) + " module(s) failed, " +
			strconv.Itoa(summary.Succeeded) + " succeeded"))
	}
}

// Close limpia recursos del presenter
func (p *PTermPresenter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopBar()
	return nil
}

func (p *PTermPresenter) stopBar() {
	if p.bar != nil {
		_, _ = p.bar.Stop()
		p.bar = nil
	}
}
