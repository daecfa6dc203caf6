// internal/core/domain/summary.go
package domain

import (
	"fmt"
	"strings"
)

// maxInlineItems límite de elementos que se muestran uno a uno en el resumen.
const maxInlineItems = 15

// SummaryRow es la proyección de solo lectura de un outcome para la UI.
type SummaryRow struct {
	Source  string `json:"source" yaml:"source"`
	Type    string `json:"type" yaml:"type"`
	Content string `json:"content" yaml:"content"`
	Count   int    `json:"count" yaml:"count"`
	Status  Status `json:"status" yaml:"status"`
}

// Summarize proyecta los outcomes a filas, en el mismo orden.
// Los fallos aparecen como filas FAILED con cero data points; un resultado
// vacío aparece como EMPTY, igual que en los eventos de progreso.
func Summarize(outcomes []Outcome) []SummaryRow {
	rows := make([]SummaryRow, 0, len(outcomes))
	for _, o := range outcomes {
		rows = append(rows, SummarizeOutcome(o))
	}
	return rows
}

// SummarizeOutcome proyecta un único outcome.
func SummarizeOutcome(o Outcome) SummaryRow {
	if !o.OK() {
		return SummaryRow{
			Source:  "UNKNOWN",
			Type:    "ERROR",
			Content: "0",
			Count:   0,
			Status:  StatusFailed,
		}
	}

	r := o.Result
	return SummaryRow{
		Source:  strings.ToUpper(r.Source),
		Type:    strings.ToUpper(r.Type),
		Content: DescribeData(r.Data),
		Count:   r.Data.Len(),
		Status:  o.Status(),
	}
}

// DescribeData resume un payload: listas cortas se enumeran, listas largas
// o vacías se cuentan, los mappings se muestran como k=v.
func DescribeData(d Data) string {
	if d.IsMapping() {
		fields := d.Fields()
		pairs := make([]string, 0, len(fields))
		for _, k := range d.Keys() {
			pairs = append(pairs, fmt.Sprintf("%s=%v", k, fields[k]))
		}
		return strings.Join(pairs, ", ")
	}

	n := d.Len()
	if n > 0 && n <= maxInlineItems {
		return strings.Join(d.Strings(), ", ")
	}
	return fmt.Sprintf("%d records found", n)
}
