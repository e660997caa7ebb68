package entity

import (
	"bytes"
	"encoding/json"
)

// SchemaField identifica la columna JSON que guarda el esquema de un registro.
type SchemaField string

const (
	FieldDefinition     SchemaField = "definicion"
	FieldSpecifications SchemaField = "especificaciones"
	FieldCustomData     SchemaField = "datosPersonalizados"
)

func isBlankJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
