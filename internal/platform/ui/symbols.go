// internal/platform/ui/symbols.go
package ui

import (
	"github.com/pterm/pterm"

	"redrecon/internal/core/domain"
)

// statusSymbol retorna el símbolo Unicode para cada estado
func statusSymbol(s domain.Status) string {
	switch s {
	case domain.StatusSuccess:
		return "✓"
	case domain.StatusEmpty:
		return "∅"
	case domain.StatusFailed:
		return "✗"
	default:
		return "?"
	}
}

// statusColor retorna el color pterm para cada estado
func statusColor(s domain.Status) pterm.Color {
	switch s {
	case domain.StatusSuccess:
		return pterm.FgGreen
	case domain.StatusEmpty:
		return pterm.FgYellow
	case domain.StatusFailed:
		return pterm.FgRed
	default:
		return pterm.FgDefault
	}
}

// Icons globales para diferentes elementos de la UI
var (
	IconTarget  = "🎯"
	IconTime    = "⏱"
	IconPlugins = "🔌"
	IconOpsec   = "🛡"
)

// Separadores
var (
	SeparatorHeavy = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"
	SeparatorLight = "──────────────────────────────────────────────────────────────────"
)
