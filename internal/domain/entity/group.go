package entity

import (
	"encoding/json"
	"time"
)

// Group representa un grupo de atributos reutilizable (plantilla). Los grupos forman un árbol vía ParentID.
type Group struct {
	ID         string
	ParentID   string // vacío si es raíz
	Name       string // único
	Definition json.RawMessage
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
