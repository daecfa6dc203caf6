// internal/core/domain/payload.go
package domain

import (
	"encoding/json"
	"fmt"
)

// Payload es lo que el cliente de red entrega a una probe: el body ya
// decodificado como JSON cuando es posible, o el texto crudo si no.
type Payload struct {
	// Status código HTTP de la respuesta
	Status int

	// Body texto crudo de la respuesta
	Body string

	structured any
	decoded    bool
}

// NewPayload intenta decodificar el body como JSON; si falla conserva el texto.
func NewPayload(status int, body []byte) *Payload {
	p := &Payload{Status: status, Body: string(body)}
	var v any
	if len(body) > 0 && json.Unmarshal(body, &v) == nil {
		p.structured = v
		p.decoded = true
	}
	return p
}

// IsStructured indica si el body era JSON válido.
func (p *Payload) IsStructured() bool {
	return p != nil && p.decoded
}

// Structured retorna el valor JSON decodificado (nil si era texto).
func (p *Payload) Structured() any {
	if p == nil {
		return nil
	}
	return p.structured
}

// Text retorna el body como texto. Vacío si p es nil.
func (p *Payload) Text() string {
	if p == nil {
		return ""
	}
	return p.Body
}

// Decode decodifica el body estructurado en v.
func (p *Payload) Decode(v any) error {
	if !p.IsStructured() {
		return fmt.Errorf("payload is not structured")
	}
	return json.Unmarshal([]byte(p.Body), v)
}
