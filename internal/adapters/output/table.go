// internal/adapters/output/table.go
package output

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
)

func writeTable(path string, in Input) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	return WriteTable(f, in)
}

// WriteTable imprime el resumen del escaneo como tabla de texto plano.
func WriteTable(out io.Writer, in Input) error {
	w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)

	fmt.Fprintf(w, "=== RedRecon Scan Report ===\n")
	fmt.Fprintf(w, "Target:\t%s\n", in.Target)
	fmt.Fprintf(w, "Scan ID:\t%s\n", in.ScanID)
	fmt.Fprintf(w, "Duration:\t%.2fs\n", in.Elapsed.Seconds())
	fmt.Fprintf(w, "Assets:\t%d (subdomains %d, open ports %d)\n",
		in.Stats.TotalAssets, in.Stats.Subdomains, in.Stats.OpenPorts)
	if in.Interrupted {
		fmt.Fprintf(w, "Status:\tINTERRUPTED\n")
	}
	fmt.Fprintln(w)

	if len(in.Rows) > 0 {
		fmt.Fprintln(w, "PLUGIN\tTYPE\tDATA POINTS\tSTATUS")
		fmt.Fprintln(w, "------\t----\t-----------\t------")
		for _, row := range in.Rows {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", row.Source, row.Type, row.Content, row.Status)
		}
	} else {
		fmt.Fprintln(w, "No probes settled.")
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush table: %w", err)
	}
	return nil
}
