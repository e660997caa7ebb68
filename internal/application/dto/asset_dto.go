package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CreateAssetRequest entrada para crear un activo. Su esquema se completa con los defaults del modelo.
type CreateAssetRequest struct {
	ModelID         string          `json:"modeloId"`
	ParentID        string          `json:"parentId"`
	Name            string          `json:"nombre"`
	SerialNumber    string          `json:"numeroSerie"`
	AcquisitionCost decimal.Decimal `json:"costoAdquisicion"`
	Definition      json.RawMessage `json:"definicion"`
}

// UpdateAssetRequest entrada para actualizar un activo.
type UpdateAssetRequest struct {
	ParentID        *string          `json:"parentId"`
	Name            *string          `json:"nombre"`
	SerialNumber    *string          `json:"numeroSerie"`
	AcquisitionCost *decimal.Decimal `json:"costoAdquisicion"`
	Definition      json.RawMessage  `json:"definicion"`
}

// AssetResponse salida de un activo.
type AssetResponse struct {
	ID              string          `json:"id"`
	ModelID         string          `json:"modeloId"`
	ParentID        string          `json:"parentId,omitempty"`
	Name            string          `json:"nombre"`
	SerialNumber    string          `json:"numeroSerie"`
	AcquisitionCost decimal.Decimal `json:"costoAdquisicion"`
	Definition      json.RawMessage `json:"definicion"`
	CustomData      json.RawMessage `json:"datosPersonalizados,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// AssetListResponse lista paginada de activos.
type AssetListResponse struct {
	Items []AssetResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
