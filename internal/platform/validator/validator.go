// internal/platform/validator/validator.go
package validator

import (
	"net"
	"regexp"
	"sort"
	"strings"
)

var hostnameRegex = regexp.MustCompile(`^([a-z0-9_]([a-z0-9\-_]{0,61}[a-z0-9])?\.)*[a-z0-9]([a-z0-9\-]{0,61}[a-z0-9])?$`)

// CleanHost lleva un nombre de host a su forma canónica: minúsculas, sin
// espacios, sin comodín inicial y sin punto final.
// Ejemplo: " *.API.Example.com. " -> "api.example.com"
func CleanHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	host = strings.TrimPrefix(host, "*.")
	return strings.TrimSuffix(host, ".")
}

// InScope indica si host es root o un subdominio de root.
// Compara etiquetas completas: "notexample.com" no está bajo "example.com".
func InScope(host, root string) bool {
	host = CleanHost(host)
	root = CleanHost(root)
	if host == "" || root == "" {
		return false
	}
	return host == root || strings.HasSuffix(host, "."+root)
}

// IsHostname verifica si s tiene forma de nombre de host (no una IP).
// Se admite "_" en etiquetas no finales por los registros de servicio.
func IsHostname(s string) bool {
	s = CleanHost(s)
	if len(s) == 0 || len(s) > 253 {
		return false
	}
	if net.ParseIP(s) != nil {
		return false
	}
	return hostnameRegex.MatchString(s)
}

// HostSet acumula hosts en scope, sin duplicados.
type HostSet struct {
	root string
	seen map[string]struct{}
}

// NewHostSet crea un set que solo acepta hosts bajo root.
func NewHostSet(root string) *HostSet {
	return &HostSet{root: CleanHost(root), seen: make(map[string]struct{})}
}

// Add normaliza host y lo guarda si está en scope. Retorna true si se añadió.
func (s *HostSet) Add(host string) bool {
	host = CleanHost(host)
	if !InScope(host, s.root) {
		return false
	}
	if _, dup := s.seen[host]; dup {
		return false
	}
	s.seen[host] = struct{}{}
	return true
}

// Len retorna el número de hosts.
func (s *HostSet) Len() int { return len(s.seen) }

// Sorted retorna los hosts en orden lexicográfico.
func (s *HostSet) Sorted() []string {
	hosts := make([]string, 0, len(s.seen))
	for h := range s.seen {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)
	return hosts
}
