package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Campos que solo existen para el constructor de formularios y nunca se persisten.
var uiOnlyFields = []string{"key", "tempKey"}

// Campos de los que se deriva la clave de un descriptor que llega en forma de lista, en orden.
var keySourceFields = []string{"id", "label", "nombre"}

// Normalize convierte una definición (lista ordenada de descriptores o mapa clave -> descriptor)
// en la forma canónica de mapa. Nunca falla: cualquier otra entrada se normaliza a {}.
// Normalize(Normalize(x)) == Normalize(x).
// Las claves derivadas pliegan acentos ("Presión Máx." -> presion_max) y las colisiones reciben
// sufijo _2, _3...; no coinciden con un simple borrado de caracteres \W.
func Normalize(v any) Definition {
	switch def := v.(type) {
	case Definition:
		return normalizeMap(def)
	case map[string]any:
		return normalizeMap(def)
	case []any:
		return normalizeList(def)
	case []map[string]any:
		items := make([]any, len(def))
		for i, item := range def {
			items[i] = item
		}
		return normalizeList(items)
	case json.RawMessage:
		return NormalizeJSON(def)
	default:
		return Definition{}
	}
}

// NormalizeJSON decodifica y normaliza una definición almacenada. JSON vacío o inválido da {}.
func NormalizeJSON(raw []byte) Definition {
	if len(raw) == 0 {
		return Definition{}
	}
	v, err := decode(raw)
	if err != nil {
		return Definition{}
	}
	return Normalize(v)
}

func normalizeMap(m map[string]any) Definition {
	out := make(Definition, len(m))
	for key, value := range m {
		switch val := value.(type) {
		case nil:
			continue
		case map[string]any:
			if isPlaceholder(val) {
				continue
			}
			out[key] = normalizeDescriptor(val)
		case Definition:
			if isPlaceholder(val) {
				continue
			}
			out[key] = normalizeDescriptor(val)
		default:
			// Valores escalares o listas a nivel de instancia: se conservan tal cual.
			out[key] = deepCopy(val)
		}
	}
	return out
}

func normalizeList(items []any) Definition {
	out := make(Definition, len(items))
	for _, raw := range items {
		item, ok := asMap(raw)
		if !ok || isPlaceholder(item) {
			continue
		}
		key := uniqueKey(out, deriveKey(item))
		out[key] = normalizeDescriptor(item)
	}
	return out
}

// normalizeDescriptor copia el descriptor sin campos de UI y normaliza sus definiciones anidadas.
func normalizeDescriptor(d map[string]any) map[string]any {
	out := deepCopyMap(d)
	for _, f := range uiOnlyFields {
		delete(out, f)
	}
	if sub, ok := asMap(out["subGrupo"]); ok {
		if inner, has := sub["definicion"]; has {
			sub["definicion"] = map[string]any(Normalize(inner))
		}
	}
	if out["dataType"] == "object" {
		if inner, has := out["definicion"]; has {
			out["definicion"] = map[string]any(Normalize(inner))
		}
	}
	return out
}

// isPlaceholder informa si el descriptor es una fila vacía del formulario (sin id, label,
// nombre ni dataType).
func isPlaceholder(d map[string]any) bool {
	for _, f := range []string{"id", "label", "nombre", "dataType"} {
		if scalarString(d[f]) != "" {
			return false
		}
	}
	return true
}

func deriveKey(item map[string]any) string {
	for _, f := range keySourceFields {
		if key := slugKey(scalarString(item[f])); key != "" {
			return key
		}
	}
	return randomKey()
}

func uniqueKey(existing Definition, key string) string {
	if _, taken := existing[key]; !taken {
		return key
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d", key, n)
		if _, taken := existing[candidate]; !taken {
			return candidate
		}
	}
}

// slugKey pasa a minúsculas, elimina tildes, reemplaza espacios por "_" y quita todo lo que
// no sea [A-Za-z0-9_].
func slugKey(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = cases.Lower(language.Und).String(s)
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err == nil {
		s = folded
	}
	var b strings.Builder
	inSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if !inSpace {
				b.WriteByte('_')
			}
			inSpace = true
			continue
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		}
		inSpace = false
	}
	return b.String()
}

func randomKey() string {
	return "k_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

// scalarString devuelve la representación textual de un valor escalar; "" para cualquier otro.
func scalarString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}
