// internal/platform/ui/helpers.go
package ui

import (
	"fmt"
	"strings"
	"time"
)

// formatDuration formatea una duración de manera legible
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	} else if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm%ds", minutes, seconds)
}

// progressTitle texto de la barra tras asentarse una probe.
func progressTitle(source, probe string) string {
	label := source
	if label == "" {
		label = probe
	}
	return "Harvesting: " + label
}

// joinProbes lista de plugins activos para el panel de misión.
func joinProbes(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
