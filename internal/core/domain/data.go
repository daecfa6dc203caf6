// internal/core/domain/data.go
package domain

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Data es el payload de un ProbeResult: o bien una secuencia ordenada de
// valores primitivos, o bien un mapping estructurado.
// El valor cero es una lista vacía, nunca "ausente".
type Data struct {
	items   []any
	mapping map[string]any
}

// List construye Data como secuencia ordenada.
func List(items ...any) Data {
	out := make([]any, len(items))
	copy(out, items)
	return Data{items: out}
}

// ListOf construye Data a partir de un slice tipado.
func ListOf[T any](items []T) Data {
	out := make([]any, 0, len(items))
	for _, it := range items {
		out = append(out, it)
	}
	return Data{items: out}
}

// Mapping construye Data como mapping estructurado.
func Mapping(m map[string]any) Data {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return Data{mapping: out}
}

// IsMapping indica si el payload es un mapping.
func (d Data) IsMapping() bool {
	return d.mapping != nil
}

// Items retorna la secuencia (vacía si es un mapping). Nunca nil.
func (d Data) Items() []any {
	if d.items == nil {
		return []any{}
	}
	return d.items
}

// Fields retorna el mapping (vacío si es una secuencia). Nunca nil.
func (d Data) Fields() map[string]any {
	if d.mapping == nil {
		return map[string]any{}
	}
	return d.mapping
}

// Keys retorna las claves del mapping ordenadas.
func (d Data) Keys() []string {
	keys := make([]string, 0, len(d.mapping))
	for k := range d.mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len retorna el número de data points.
func (d Data) Len() int {
	if d.IsMapping() {
		return len(d.mapping)
	}
	return len(d.items)
}

// IsEmpty indica si no hay hallazgos.
func (d Data) IsEmpty() bool {
	return d.Len() == 0
}

// Strings retorna los elementos de la secuencia formateados con %v.
func (d Data) Strings() []string {
	out := make([]string, 0, len(d.items))
	for _, it := range d.items {
		out = append(out, fmt.Sprint(it))
	}
	return out
}

// Value retorna la representación nativa (slice o map) para templates y encoders.
func (d Data) Value() any {
	if d.IsMapping() {
		return d.Fields()
	}
	return d.Items()
}

// MarshalJSON serializa como array o como objeto.
func (d Data) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Value())
}

// UnmarshalJSON acepta un array o un objeto JSON.
func (d *Data) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
		*d = List()
	case []any:
		*d = List(v...)
	case map[string]any:
		*d = Mapping(v)
	default:
		return fmt.Errorf("data must be an array or an object, got %T", raw)
	}
	return nil
}

// MarshalYAML implementa yaml.Marshaler.
func (d Data) MarshalYAML() (any, error) {
	return d.Value(), nil
}
