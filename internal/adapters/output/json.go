// internal/adapters/output/json.go
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// sanitizeDomainName convierte un nombre de dominio en un fragmento de nombre de archivo válido.
// Ejemplo: "example.com" -> "example_com"
func sanitizeDomainName(domain string) string {
	sanitized := strings.ReplaceAll(domain, ".", "_")
	// Cualquier otro carácter que no sea alfanumérico, guión bajo o guión
	sanitized = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, sanitized)
	return sanitized
}

func writeJSON(path string, in Input) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	return EncodeJSON(f, in, true)
}

// EncodeJSON escribe el reporte en w. pretty usa indentación de dos espacios.
func EncodeJSON(w io.Writer, in Input, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(in); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
