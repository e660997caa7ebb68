package dto

import (
	"encoding/json"
	"time"
)

// CreateModelRequest entrada para crear un modelo. Su esquema se completa con los defaults de la categoría.
type CreateModelRequest struct {
	CategoryID   string          `json:"categoriaId"`
	Name         string          `json:"nombre"`
	Manufacturer string          `json:"fabricante"`
	Definition   json.RawMessage `json:"definicion"`
}

// UpdateModelRequest entrada para actualizar un modelo.
type UpdateModelRequest struct {
	CategoryID   *string         `json:"categoriaId"`
	Name         *string         `json:"nombre"`
	Manufacturer *string         `json:"fabricante"`
	Definition   json.RawMessage `json:"definicion"`
}

// ModelResponse salida de un modelo.
type ModelResponse struct {
	ID             string          `json:"id"`
	CategoryID     string          `json:"categoriaId"`
	Name           string          `json:"nombre"`
	Manufacturer   string          `json:"fabricante"`
	Definition     json.RawMessage `json:"definicion"`
	Specifications json.RawMessage `json:"especificaciones,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// ModelListResponse lista paginada de modelos.
type ModelListResponse struct {
	Items []ModelResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// ModelUpdateResponse modelo actualizado más el resumen de la propagación a sus activos.
type ModelUpdateResponse struct {
	Model       ModelResponse       `json:"modelo"`
	Propagation PropagationResponse `json:"propagacion"`
}
