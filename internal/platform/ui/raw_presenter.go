// internal/platform/ui/raw_presenter.go
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"redrecon/internal/core/ports"
)

// LogFormat define el formato de salida para el modo raw
type LogFormat string

const (
	LogFormatText LogFormat = "text" // Formato logfmt (default)
	LogFormatJSON LogFormat = "json" // Formato JSON estructurado
)

// RawPresenter implementa el Presenter para modo raw (una línea por evento,
// sin formato visual). Pensado para CI y pipes.
type RawPresenter struct {
	format LogFormat
	out    io.Writer
	mu     sync.Mutex
}

// NewRawPresenter crea un nuevo RawPresenter que escribe en stdout
func NewRawPresenter(format LogFormat) *RawPresenter {
	return NewRawPresenterWithWriter(format, os.Stdout)
}

// NewRawPresenterWithWriter crea un RawPresenter sobre un writer arbitrario
func NewRawPresenterWithWriter(format LogFormat, w io.Writer) *RawPresenter {
	if format != LogFormatJSON {
		format = LogFormatText
	}
	return &RawPresenter{format: format, out: w}
}

// log escribe un log en el formato configurado
func (r *RawPresenter) log(level, message string, fields map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	timestamp := time.Now().UTC().Format(time.RFC3339)

	if r.format == LogFormatJSON {
		r.logJSON(timestamp, level, message, fields)
	} else {
		r.logText(timestamp, level, message, fields)
	}
}

// logText escribe en formato logfmt: timestamp LEVEL message key=value key2=value2
func (r *RawPresenter) logText(timestamp, level, message string, fields map[string]any) {
	parts := []string{timestamp, fmt.Sprintf("%-5s", level), message}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, r.formatValue(fields[k])))
	}

	fmt.Fprintln(r.out, strings.Join(parts, " "))
}

// logJSON escribe en formato JSON estructurado
func (r *RawPresenter) logJSON(timestamp, level, message string, fields map[string]any) {
	entry := map[string]any{
		"timestamp": timestamp,
		"level":     level,
		"message":   message,
	}
	if len(fields) > 0 {
		entry["data"] = fields
	}

	b, err := json.Marshal(entry)
	if err != nil {
		return
	}
	fmt.Fprintln(r.out, string(b))
}

// formatValue formatea valores para logfmt (entrecomilla strings con espacios)
func (r *RawPresenter) formatValue(v any) string {
	switch val := v.(type) {
	case string:
		if strings.ContainsAny(val, " =\"") {
			return fmt.Sprintf("%q", val)
		}
		return val
	case time.Duration:
		return formatDuration(val)
	case float64:
		return fmt.Sprintf("%.2f", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Start registra el inicio del escaneo
func (r *RawPresenter) Start(info ScanInfo) {
	r.log("INFO", "scan_started", map[string]any{
		"scan_id": info.ScanID,
		"target":  info.Target,
		"probes":  strings.Join(info.Probes, ","),
	})
}

// ProbeSettled registra cada outcome
func (r *RawPresenter) ProbeSettled(ev ports.ProbeSettledEvent) {
	fields := map[string]any{
		"probe":    ev.Probe,
		"status":   ev.Status.String(),
		"progress": fmt.Sprintf("%d/%d", ev.Settled, ev.Total),
		"duration": ev.Elapsed,
	}
	if ev.Source != "" {
		fields["source"] = ev.Source
		fields["count"] = ev.Count
	}
	if ev.Err != nil {
		fields["error"] = ev.Err.Error()
	}
	r.log("INFO", "probe_settled", fields)
}

// Info muestra un mensaje informativo
func (r *RawPresenter) Info(msg string) {
	r.log("INFO", msg, nil)
}

// Warning muestra una advertencia
func (r *RawPresenter) Warning(msg string) {
	r.log("WARN", msg, nil)
}

// Error muestra un error
func (r *RawPresenter) Error(msg string) {
	r.log("ERROR", msg, nil)
}

// Finish registra una línea por fila del resumen y el cierre del escaneo
func (r *RawPresenter) Finish(summary Summary) {
	for _, row := range summary.Rows {
		r.log("INFO", "result", map[string]any{
			"source":  row.Source,
			"type":    row.Type,
			"count":   row.Count,
			"content": row.Content,
			"status":  row.Status.String(),
		})
	}

	event := "scan_completed"
	level := "INFO"
	if summary.Interrupted {
		event = "scan_interrupted"
		level = "WARN"
	}
	r.log(level, event, map[string]any{
		"duration":  summary.Duration,
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
	})
}

// Close limpia recursos
func (r *RawPresenter) Close() error {
	return nil
}
