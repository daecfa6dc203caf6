// cmd/redrecon/probes.go
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"redrecon/internal/core/domain"
	"redrecon/internal/core/ports"
	"redrecon/internal/platform/registry"
)

// newProbesCmd lista las probes registradas, o solo la indicada por clave.
func newProbesCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "probes [key]",
		Short: "List registered probes and the results they produce",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			metas := registry.Global().Metadata(registry.NamespaceRecon)
			if len(args) == 1 {
				key := strings.ToLower(strings.TrimSpace(args[0]))
				m, ok := registry.Global().GetMetadata(registry.NamespaceRecon, key)
				if !ok {
					return &exitError{code: exitConfig, err: fmt.Errorf("%w: unknown probe %q", domain.ErrInvalidConfig, key)}
				}
				metas = []ports.ProbeMetadata{m}
			}

			data := pterm.TableData{{"Key", "Name", "Category", "Source", "Type", "Description"}}
			for _, m := range metas {
				data = append(data, []string{
					m.Key,
					m.Name,
					strings.ToUpper(m.Category.String()),
					m.Source,
					m.ResultType,
					m.Description,
				})
			}
			table, err := pterm.DefaultTable.
				WithHasHeader().
				WithData(data).
				Srender()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(stdout, table)
			return err
		},
	}
}
