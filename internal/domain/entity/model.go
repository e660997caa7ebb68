package entity

import (
	"encoding/json"
	"time"
)

// Model representa un modelo de fábrica dentro de una categoría. Sus atributos sirven de valores
// por defecto para los activos que se instancian a partir de él.
type Model struct {
	ID             string
	CategoryID     string
	Name           string
	Manufacturer   string
	Definition     json.RawMessage // definicion
	Specifications json.RawMessage // especificaciones (esquema heredado de versiones anteriores)
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SchemaField devuelve qué columna de esquema usa el modelo: la que tenga contenido,
// prefiriendo definicion.
func (m *Model) SchemaField() SchemaField {
	if !isBlankJSON(m.Definition) || isBlankJSON(m.Specifications) {
		return FieldDefinition
	}
	return FieldSpecifications
}

// Schema devuelve el JSON almacenado en la columna indicada por SchemaField.
func (m *Model) Schema() json.RawMessage {
	if m.SchemaField() == FieldSpecifications {
		return m.Specifications
	}
	return m.Definition
}
