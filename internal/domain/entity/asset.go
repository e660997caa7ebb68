package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Asset representa un activo concreto de la flota (vehículo, motor, transmisión...).
// Un activo compuesto agrupa subactivos vía ParentID.
type Asset struct {
	ID              string
	ModelID         string
	ParentID        string // vacío si no es componente de otro activo
	Name            string
	SerialNumber    string
	AcquisitionCost decimal.Decimal
	Definition      json.RawMessage // definicion
	CustomData      json.RawMessage // datosPersonalizados
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SchemaField devuelve la columna de esquema que usa el activo, prefiriendo definicion.
func (a *Asset) SchemaField() SchemaField {
	if !isBlankJSON(a.Definition) || isBlankJSON(a.CustomData) {
		return FieldDefinition
	}
	return FieldCustomData
}

// Schema devuelve el JSON almacenado en la columna indicada por SchemaField.
func (a *Asset) Schema() json.RawMessage {
	if a.SchemaField() == FieldCustomData {
		return a.CustomData
	}
	return a.Definition
}
