// internal/adapters/output/yaml.go
package output

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

func writeYAML(path string, in Input) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(in); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}
