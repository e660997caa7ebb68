package usecase

import (
	"encoding/json"
	"fmt"

	"github.com/jhoicas/Flota-api/internal/application/dto"
	"github.com/jhoicas/Flota-api/internal/application/propagation"
	"github.com/jhoicas/Flota-api/internal/domain"
	"github.com/jhoicas/Flota-api/internal/domain/schema"
	"github.com/jhoicas/Flota-api/pkg/validation"
)

// canonicalDefinition valida la definición recibida y la devuelve normalizada (mapa, sin campos de UI).
func canonicalDefinition(raw json.RawMessage) (schema.Definition, error) {
	if err := validation.ValidateDefinition(raw); err != nil {
		return nil, err
	}
	return schema.NormalizeJSON(raw), nil
}

func encodeDefinition(def schema.Definition) (json.RawMessage, error) {
	raw, err := def.JSON()
	if err != nil {
		return nil, fmt.Errorf("%w: serializar definición: %w", domain.ErrInvalidInput, err)
	}
	return raw, nil
}

// seededDefinition fusiona los defaults del padre en la definición propia y la serializa.
func seededDefinition(own, parent json.RawMessage) (json.RawMessage, error) {
	merged := schema.MergeDefinitions(schema.NormalizeJSON(own), schema.NormalizeJSON(parent))
	return encodeDefinition(merged)
}

func toPropagationResponse(r *propagation.Result) dto.PropagationResponse {
	if r == nil {
		return dto.PropagationResponse{}
	}
	return dto.PropagationResponse{
		OK:         r.OK,
		Level:      string(r.Level),
		SourceID:   r.SourceID,
		Categories: r.Categories,
		Models:     r.Models,
		Assets:     r.Assets,
	}
}

func persistenceErr(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrPersistence, what, err)
}

// pageOf aplica limit/offset a un listado ya filtrado en memoria.
func pageOf[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
