package dto

import (
	"encoding/json"
	"time"
)

// CreateCategoryRequest entrada para crear una categoría. GroupIDs son los grupos que la componen.
type CreateCategoryRequest struct {
	Name       string          `json:"nombre"`
	Definition json.RawMessage `json:"definicion"`
	GroupIDs   []string        `json:"grupos"`
}

// UpdateCategoryRequest entrada para actualizar una categoría.
type UpdateCategoryRequest struct {
	Name       *string         `json:"nombre"`
	Definition json.RawMessage `json:"definicion"`
}

// SetCategoryGroupsRequest reemplaza el conjunto de grupos de una categoría.
type SetCategoryGroupsRequest struct {
	GroupIDs []string `json:"grupos"`
}

// CategoryResponse salida de una categoría con sus grupos vinculados.
type CategoryResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"nombre"`
	Definition json.RawMessage `json:"definicion"`
	GroupIDs   []string        `json:"grupos"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// CategoryListResponse lista paginada de categorías.
type CategoryListResponse struct {
	Items []CategoryResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CategoryUpdateResponse categoría actualizada más el resumen de la propagación.
type CategoryUpdateResponse struct {
	Category    CategoryResponse    `json:"categoria"`
	Propagation PropagationResponse `json:"propagacion"`
}
