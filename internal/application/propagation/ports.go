package propagation

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Flota-api/internal/domain"
	"github.com/jhoicas/Flota-api/internal/domain/repository"
	"github.com/jhoicas/Flota-api/internal/domain/schema"
)

// Level nivel de la jerarquía desde el que se propaga.
type Level string

const (
	LevelGroup    Level = "grupo"
	LevelCategory Level = "categoria"
	LevelModel    Level = "modelo"
)

// ParseLevel valida el nivel recibido desde HTTP o CLI.
func ParseLevel(s string) (Level, error) {
	switch l := Level(s); l {
	case LevelGroup, LevelCategory, LevelModel:
		return l, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidLevel, s)
	}
}

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Groups     repository.GroupRepository
	Categories repository.CategoryRepository
	Models     repository.ModelRepository
	Assets     repository.AssetRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace rollback de todas las escrituras.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}

// Notifier publica el resultado de una propagación ya confirmada (invalidación de cachés,
// notificaciones a otros servicios). Un fallo al publicar no revierte la propagación.
type Notifier interface {
	Publish(ctx context.Context, event Event) error
}

// Options opciones de una propagación.
//
// OldDef es la definición que el grupo propagador aportaba antes del cambio. La suministra quien
// modificó el grupo (el caso de uso de actualización la captura antes de escribir). Sin OldDef
// la poda no elimina nada aunque RemoveMissing sea true.
type Options struct {
	RemoveMissing bool              `json:"removeMissing"`
	OldDef        schema.Definition `json:"oldDef,omitempty"`
}

// Result resumen de una propagación: IDs de los registros que efectivamente se reescribieron.
type Result struct {
	OK         bool     `json:"ok"`
	Level      Level    `json:"nivel"`
	SourceID   string   `json:"id"`
	Categories []string `json:"categorias"`
	Models     []string `json:"modelos"`
	Assets     []string `json:"activos"`
}

// Written total de registros reescritos.
func (r *Result) Written() int {
	return len(r.Categories) + len(r.Models) + len(r.Assets)
}

// Event evento publicado tras confirmar una propagación.
type Event struct {
	Level      Level     `json:"nivel"`
	SourceID   string    `json:"id"`
	Categories []string  `json:"categorias"`
	Models     []string  `json:"modelos"`
	Assets     []string  `json:"activos"`
	At         time.Time `json:"at"`
}
