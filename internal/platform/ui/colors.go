// internal/platform/ui/colors.go
package ui

import "github.com/pterm/pterm"

// Paleta "red team": rojo para lo crítico, cian para datos, verde para éxito.
var (
	// BloodRed - banner, bordes, errores críticos
	BloodRed = pterm.NewRGB(215, 38, 56)

	// SignalGreen - operaciones exitosas
	SignalGreen = pterm.NewRGB(46, 204, 113)

	// AmberWarn - warnings y resultados vacíos
	AmberWarn = pterm.NewRGB(255, 182, 39)

	// TerminalCyan - valores y nombres de probe
	TerminalCyan = pterm.NewRGB(0, 206, 209)

	// AshGray - texto secundario
	AshGray = pterm.NewRGB(110, 110, 110)
)

// Estilos preconfigurados para diferentes contextos
var (
	StylePrimary   = BloodRed.ToRGBStyle()
	StyleSuccess   = SignalGreen.ToRGBStyle()
	StyleWarning   = AmberWarn.ToRGBStyle()
	StyleAccent    = TerminalCyan.ToRGBStyle()
	StyleSecondary = AshGray.ToRGBStyle()
)
