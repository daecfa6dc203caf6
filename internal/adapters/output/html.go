// internal/adapters/output/html.go
package output

import (
	_ "embed"
	"fmt"
	"html/template"
	"os"

	"github.com/Masterminds/sprig/v3"
)

//go:embed templates/report.html
var reportTemplate string

// criticalPorts puertos que el reporte resalta como servicio crítico.
var criticalPorts = []string{"21", "22", "3389", "445"}

// portSource source cuyos elementos se renderizan como puertos.
const portSource = "port_scan"

type htmlField struct {
	Key   string
	Value any
}

type htmlCard struct {
	Source    string
	Count     int
	IsMapping bool
	Items     []string
	Fields    []htmlField
}

type htmlView struct {
	Input
	Cards         []htmlCard
	CriticalPorts []string
	PortSource    string
	Date          string
}

var htmlTmpl = template.Must(
	template.New("report").Funcs(sprig.HtmlFuncMap()).Parse(reportTemplate),
)

func buildHTMLView(in Input) htmlView {
	cards := make([]htmlCard, 0, len(in.Results))
	for _, source := range in.Results.Sources() {
		data := in.Results[source]
		c := htmlCard{Source: source, IsMapping: data.IsMapping()}
		if c.IsMapping {
			c.Count = 1
			fields := data.Fields()
			for _, k := range data.Keys() {
				c.Fields = append(c.Fields, htmlField{Key: k, Value: fields[k]})
			}
		} else {
			c.Count = data.Len()
			c.Items = data.Strings()
		}
		cards = append(cards, c)
	}

	return htmlView{
		Input:         in,
		Cards:         cards,
		CriticalPorts: criticalPorts,
		PortSource:    portSource,
		Date:          in.GeneratedAt.Format("2006-01-02 15:04:05"),
	}
}

func writeHTML(path string, in Input) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := htmlTmpl.Execute(f, buildHTMLView(in)); err != nil {
		return fmt.Errorf("failed to render HTML: %w", err)
	}
	return nil
}
