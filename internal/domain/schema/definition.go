// Package schema contiene el motor puro de esquemas de atributos: normalización de definiciones,
// fusión de valores por defecto y poda de claves sin procedencia. No depende de persistencia.
package schema

import (
	"bytes"
	"encoding/json"
	"reflect"
	"sort"
)

// Definition es la forma canónica de un esquema: clave de atributo -> descriptor
// ({id, label, dataType, inputType, defaultValue, definicion?, subGrupo?, ...}).
// Los valores son los tipos que produce encoding/json (map[string]any, []any, string,
// json.Number, float64, bool, nil).
type Definition map[string]any

// Keys devuelve el conjunto de claves de primer nivel de la definición.
func (d Definition) Keys() KeySet {
	set := make(KeySet, len(d))
	for k := range d {
		set[k] = struct{}{}
	}
	return set
}

// Clone devuelve una copia profunda de la definición.
func (d Definition) Clone() Definition {
	if d == nil {
		return nil
	}
	return Definition(deepCopyMap(d))
}

// JSON serializa la definición en forma canónica (claves ordenadas). Una definición nil se
// serializa como {}.
func (d Definition) JSON() (json.RawMessage, error) {
	if d == nil {
		return json.RawMessage("{}"), nil
	}
	return json.Marshal(map[string]any(d))
}

// Equal compara dos definiciones estructuralmente. encoding/json ordena las claves de los mapas,
// así que la serialización es canónica y la comparación no depende del orden de inserción.
func Equal(a, b Definition) bool {
	ja, errA := a.JSON()
	jb, errB := b.JSON()
	if errA != nil || errB != nil {
		return reflect.DeepEqual(a, b)
	}
	return bytes.Equal(ja, jb)
}

// KeySet conjunto de claves de atributo.
type KeySet map[string]struct{}

// Has informa si la clave está en el conjunto.
func (s KeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Add agrega todas las claves de other al conjunto.
func (s KeySet) Add(other KeySet) {
	for k := range other {
		s[k] = struct{}{}
	}
}

// Sorted devuelve las claves ordenadas (útil para logs y respuestas deterministas).
func (s KeySet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// decode convierte JSON crudo en valores genéricos conservando la precisión numérica.
func decode(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Definition:
		return map[string]any(m), true
	default:
		return nil, false
	}
}

func deepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case Definition:
		return deepCopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopy(item)
		}
		return out
	default:
		return val
	}
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopy(v)
	}
	return out
}
