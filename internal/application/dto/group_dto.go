package dto

import (
	"encoding/json"
	"time"
)

// CreateGroupRequest entrada para crear un grupo de atributos.
type CreateGroupRequest struct {
	Name       string          `json:"nombre"`
	ParentID   string          `json:"parentId"`
	Definition json.RawMessage `json:"definicion"`
}

// UpdateGroupRequest entrada para actualizar un grupo. Los campos nil no se modifican.
type UpdateGroupRequest struct {
	Name       *string         `json:"nombre"`
	ParentID   *string         `json:"parentId"`
	Definition json.RawMessage `json:"definicion"`
}

// GroupResponse salida de un grupo. Definition siempre en forma canónica (mapa).
type GroupResponse struct {
	ID         string          `json:"id"`
	ParentID   string          `json:"parentId,omitempty"`
	Name       string          `json:"nombre"`
	Definition json.RawMessage `json:"definicion"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// GroupListResponse lista paginada de grupos.
type GroupListResponse struct {
	Items []GroupResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// GroupUpdateResponse grupo actualizado más el resumen de la propagación que disparó.
type GroupUpdateResponse struct {
	Group       GroupResponse       `json:"grupo"`
	Propagation PropagationResponse `json:"propagacion"`
}

// SubtreeResponse IDs del grupo y todos sus descendientes.
type SubtreeResponse struct {
	RootID   string   `json:"id"`
	GroupIDs []string `json:"grupos"`
}
