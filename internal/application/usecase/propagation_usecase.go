package usecase

import (
	"context"

	"github.com/jhoicas/Flota-api/internal/application/dto"
	"github.com/jhoicas/Flota-api/internal/application/propagation"
)

// PropagationUseCase punto de entrada directo a la propagación (API y CLI).
type PropagationUseCase struct {
	prop *propagation.Service
}

// NewPropagationUseCase construye el caso de uso.
func NewPropagationUseCase(prop *propagation.Service) *PropagationUseCase {
	return &PropagationUseCase{prop: prop}
}

// Propagate propaga desde (nivel, id). oldDef solo se usa con removeMissing y nivel grupo.
func (uc *PropagationUseCase) Propagate(ctx context.Context, nivel, id string, in dto.PropagateRequest) (*dto.PropagationResponse, error) {
	level, err := propagation.ParseLevel(nivel)
	if err != nil {
		return nil, err
	}
	opts := propagation.Options{RemoveMissing: in.RemoveMissing}
	if len(in.OldDef) > 0 {
		def, err := canonicalDefinition(in.OldDef)
		if err != nil {
			return nil, err
		}
		opts.OldDef = def
	}
	res, err := uc.prop.Propagate(ctx, level, id, opts)
	if err != nil {
		return nil, err
	}
	out := toPropagationResponse(res)
	return &out, nil
}
