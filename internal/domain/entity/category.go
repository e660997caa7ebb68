package entity

import (
	"encoding/json"
	"time"
)

// Category representa una categoría de equipos: composición de uno o más grupos más atributos propios.
type Category struct {
	ID         string
	Name       string
	Definition json.RawMessage
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CategoryGroup fila de la tabla de unión categoria_grupos.
type CategoryGroup struct {
	CategoryID string
	GroupID    string
}
