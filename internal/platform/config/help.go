// internal/platform/config/help.go
package config

import (
	"fmt"
	"io"
	"runtime"
)

// Examples se muestra en la ayuda del comando raíz.
const Examples = `  Basic scan:
    redrecon -t example.com

  Only JSON and YAML reports, plain output:
    redrecon -t example.com -f json,yaml --ui raw

  Custom port list, no WHOIS:
    redrecon -t example.com --ports 22,80,443 --disable whois

  Through a proxy with a request rate limit:
    redrecon -t example.com -p http://127.0.0.1:8080 --rate-limit 5

  From a config file, metrics for node_exporter:
    redrecon -c redrecon.yaml --metrics-file /var/lib/node_exporter/redrecon.prom`

// EnvHelp documenta las variables de entorno equivalentes.
const EnvHelp = `Every option can also be set through the environment with the REDRECON_ prefix:

  REDRECON_TARGET=example.com
  REDRECON_FORMATS=html,json
  REDRECON_HTTP_MAX_CONNECTIONS=30
  REDRECON_HTTP_TIMEOUT=45s
  REDRECON_LOG_LEVEL=debug

CLI flags override environment variables, which override the config file.`

// PrintVersion escribe la información de versión.
func PrintVersion(w io.Writer, version, commit, date string) {
	fmt.Fprintf(w, "redrecon %s\n", version)
	fmt.Fprintf(w, "  Commit:  %s\n", commit)
	fmt.Fprintf(w, "  Built:   %s\n", date)
	fmt.Fprintf(w, "  Go:      %s\n", runtime.Version())
}
