// internal/core/domain/enums.go
package domain

// Category clasifica las probes por la técnica que emplean.
type Category string

const (
	// CategoryRecon fuentes pasivas (OSINT, APIs públicas)
	CategoryRecon Category = "recon"

	// CategoryActive técnicas que tocan directamente el target (port sweep)
	CategoryActive Category = "active"

	// CategoryInfra resolución de registros de infraestructura (DNS)
	CategoryInfra Category = "infra"
)

// IsValid verifica si la categoría es conocida.
func (c Category) IsValid() bool {
	switch c {
	case CategoryRecon, CategoryActive, CategoryInfra:
		return true
	default:
		return false
	}
}

// String retorna la representación string de la categoría.
func (c Category) String() string {
	return string(c)
}

// Status indica cómo terminó una probe.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusEmpty   Status = "EMPTY"
	StatusFailed  Status = "FAILED"
)

// String retorna la representación string del estado.
func (s Status) String() string {
	return string(s)
}
