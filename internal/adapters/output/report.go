// internal/adapters/output/report.go
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"redrecon/internal/core/domain"
	"redrecon/internal/platform/errors"
)

// Formatos de reporte soportados.
const (
	FormatHTML  = "html"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "txt"
)

// Input es lo que la etapa de reporte recibe tras el escaneo.
type Input struct {
	Target      string                   `json:"target" yaml:"target"`
	ScanID      string                   `json:"scan_id" yaml:"scan_id"`
	GeneratedAt time.Time                `json:"generated_at" yaml:"generated_at"`
	Elapsed     time.Duration            `json:"-" yaml:"-"`
	Seconds     float64                  `json:"elapsed_seconds" yaml:"elapsed_seconds"`
	Interrupted bool                     `json:"interrupted" yaml:"interrupted"`
	Stats       Stats                    `json:"stats" yaml:"stats"`
	Results     domain.AggregatedResults `json:"results" yaml:"results"`
	Rows        []domain.SummaryRow      `json:"summary" yaml:"summary"`
}

// Stats contadores de cabecera del reporte.
type Stats struct {
	TotalAssets int `json:"total_assets" yaml:"total_assets"`
	OpenPorts   int `json:"open_ports" yaml:"open_ports"`
	Subdomains  int `json:"subdomains" yaml:"subdomains"`
}

// NewInput construye el input de reporte a partir de un run finalizado.
func NewInput(run *domain.ScanRun) Input {
	in := Input{
		Target:      run.Target,
		ScanID:      run.ID,
		GeneratedAt: time.Now(),
		Elapsed:     run.Elapsed(),
		Interrupted: run.Interrupted,
		Results:     run.Results,
		Rows:        domain.Summarize(run.Outcomes),
	}
	in.Stats = ComputeStats(in.Results)
	return in
}

// ComputeStats cuenta data points por source. Un mapping cuenta como uno.
func ComputeStats(results domain.AggregatedResults) Stats {
	var s Stats
	for source, data := range results {
		count := 1
		if !data.IsMapping() {
			count = data.Len()
		}

		lower := strings.ToLower(source)
		switch {
		case strings.Contains(lower, "port"):
			s.OpenPorts += count
		case strings.Contains(lower, "crt"), strings.Contains(lower, "hacker"):
			s.Subdomains += count
		}
		s.TotalAssets += count
	}
	return s
}

// writers formato -> función que escribe el archivo.
var writers = map[string]func(path string, in Input) error{
	FormatHTML:  writeHTML,
	FormatJSON:  writeJSON,
	FormatYAML:  writeYAML,
	FormatTable: writeTable,
}

// ReportPath retorna la ruta del reporte para target y formato.
// Ejemplo: ("results", "example.com", "html") -> results/report_example_com.html
func ReportPath(dir, target, format string) string {
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, fmt.Sprintf("report_%s.%s", sanitizeDomainName(target), format))
}

// Write genera un archivo por formato en dir y retorna las rutas escritas.
// Un formato desconocido se rechaza antes de escribir nada.
func Write(dir string, formats []string, in Input) ([]string, error) {
	if len(formats) == 0 {
		formats = []string{FormatHTML}
	}

	normalized := make([]string, 0, len(formats))
	seen := make(map[string]bool, len(formats))
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "yml" {
			f = FormatYAML
		}
		if _, ok := writers[f]; !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, f)
		}
		if !seen[f] {
			seen[f] = true
			normalized = append(normalized, f)
		}
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create output directory")
	}

	if in.Results == nil {
		in.Results = make(domain.AggregatedResults)
	}
	if in.GeneratedAt.IsZero() {
		in.GeneratedAt = time.Now()
	}
	in.Stats = ComputeStats(in.Results)
	in.Seconds = in.Elapsed.Seconds()

	paths := make([]string, 0, len(normalized))
	var errs []error
	for _, f := range normalized {
		path := ReportPath(dir, in.Target, f)
		if err := writers[f](path, in); err != nil {
			errs = append(errs, errors.Wrapf(err, "%s report", f))
			continue
		}
		paths = append(paths, path)
	}
	return paths, errors.Join(errs...)
}
