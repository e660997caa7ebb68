// Package validation valida con JSON Schema las definiciones de atributos que llegan por la API.
package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jhoicas/Flota-api/internal/domain"
)

// Una definición llega como lista de descriptores (formato del editor) o como mapa clave -> descriptor.
// En forma de mapa también se aceptan valores escalares (valores de instancia de un activo).
const definitionSchema = `{
  "definitions": {
    "descriptor": {
      "type": "object",
      "properties": {
        "id":           {"type": ["string", "number"]},
        "label":        {"type": "string"},
        "nombre":       {"type": "string"},
        "dataType":     {"type": "string", "minLength": 1},
        "inputType":    {"type": "string"},
        "definicion":   {"$ref": "#/definitions/definition"},
        "subGrupo": {
          "type": ["object", "null"],
          "properties": {"definicion": {"$ref": "#/definitions/definition"}}
        }
      }
    },
    "definition": {
      "oneOf": [
        {"type": "null"},
        {"type": "array", "items": {"anyOf": [{"type": "null"}, {"$ref": "#/definitions/descriptor"}]}},
        {"type": "object", "additionalProperties": {"anyOf": [
          {"not": {"type": "object"}},
          {"$ref": "#/definitions/descriptor"}
        ]}}
      ]
    }
  },
  "$ref": "#/definitions/definition"
}`

var compiled *gojsonschema.Schema

func init() {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(definitionSchema))
	if err != nil {
		panic(fmt.Sprintf("validation: schema de definición inválido: %v", err))
	}
	compiled = s
}

// DefinitionError error de validación con el detalle de cada violación.
type DefinitionError struct {
	Details []string
}

func (e *DefinitionError) Error() string {
	return "definición inválida: " + strings.Join(e.Details, "; ")
}

// Unwrap permite errors.Is(err, domain.ErrInvalidInput).
func (e *DefinitionError) Unwrap() error {
	return domain.ErrInvalidInput
}

// ValidateDefinition valida el JSON crudo de una definición. Vacío o null son válidos.
func ValidateDefinition(raw json.RawMessage) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	if !json.Valid(trimmed) {
		return &DefinitionError{Details: []string{"JSON mal formado"}}
	}
	result, err := compiled.Validate(gojsonschema.NewBytesLoader(trimmed))
	if err != nil {
		return &DefinitionError{Details: []string{err.Error()}}
	}
	if result.Valid() {
		return nil
	}
	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return &DefinitionError{Details: details}
}
