package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Flota-api/internal/application/dto"
	"github.com/jhoicas/Flota-api/internal/application/propagation"
	"github.com/jhoicas/Flota-api/internal/domain"
	"github.com/jhoicas/Flota-api/internal/domain/entity"
	"github.com/jhoicas/Flota-api/internal/domain/repository"
)

// AssetUseCase casos de uso de activos. Un activo es la hoja de la jerarquía: sus cambios no se propagan.
type AssetUseCase struct {
	repos    propagation.Repos
	txRunner propagation.TxRunner
}

// NewAssetUseCase construye el caso de uso.
func NewAssetUseCase(repos propagation.Repos, txRunner propagation.TxRunner) *AssetUseCase {
	return &AssetUseCase{repos: repos, txRunner: txRunner}
}

// Create crea un activo con el esquema de su modelo como valores por defecto.
func (uc *AssetUseCase) Create(ctx context.Context, in dto.CreateAssetRequest) (*dto.AssetResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.ModelID == "" {
		return nil, fmt.Errorf("%w: nombre y modeloId son requeridos", domain.ErrInvalidInput)
	}
	if in.AcquisitionCost.IsNegative() {
		return nil, fmt.Errorf("%w: costoAdquisicion negativo", domain.ErrInvalidInput)
	}
	if _, err := canonicalDefinition(in.Definition); err != nil {
		return nil, err
	}
	now := time.Now()
	asset := &entity.Asset{
		ID:              uuid.New().String(),
		ModelID:         in.ModelID,
		ParentID:        in.ParentID,
		Name:            name,
		SerialNumber:    strings.TrimSpace(in.SerialNumber),
		AcquisitionCost: in.AcquisitionCost,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err := uc.txRunner.Run(ctx, func(repos propagation.Repos) error {
		m, err := repos.Models.GetByID(ctx, in.ModelID)
		if err != nil {
			return persistenceErr("cargar modelo", err)
		}
		if m == nil {
			return fmt.Errorf("%w: modelo %s", domain.ErrNotFound, in.ModelID)
		}
		if in.ParentID != "" {
			if err := checkAssetParent(ctx, repos.Assets, asset.ID, in.ParentID); err != nil {
				return err
			}
		}
		if asset.Definition, err = seededDefinition(in.Definition, m.Schema()); err != nil {
			return err
		}
		return repos.Assets.Create(ctx, asset)
	})
	if err != nil {
		return nil, err
	}
	return toAssetResponse(asset), nil
}

// GetByID obtiene un activo. Devuelve nil, nil si no existe.
func (uc *AssetUseCase) GetByID(ctx context.Context, id string) (*dto.AssetResponse, error) {
	a, err := uc.repos.Assets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAssetResponse(a), nil
}

// List lista activos; si modelID no está vacío filtra por ese modelo.
func (uc *AssetUseCase) List(ctx context.Context, modelID string, limit, offset int) (*dto.AssetListResponse, error) {
	var (
		list []*entity.Asset
		err  error
	)
	if modelID != "" {
		list, err = uc.repos.Assets.ListByModels(ctx, []string{modelID})
		list = pageOf(list, limit, offset)
	} else {
		list, err = uc.repos.Assets.List(ctx, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	return toAssetList(list, limit, offset), nil
}

// Components lista los componentes directos de un activo compuesto.
func (uc *AssetUseCase) Components(ctx context.Context, id string) (*dto.AssetListResponse, error) {
	a, err := uc.repos.Assets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("%w: activo %s", domain.ErrNotFound, id)
	}
	list, err := uc.repos.Assets.ListChildren(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAssetList(list, 0, 0), nil
}

// Update modifica el activo. La definición recibida reemplaza la columna de esquema en uso.
func (uc *AssetUseCase) Update(ctx context.Context, id string, in dto.UpdateAssetRequest) (*dto.AssetResponse, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("%w: nombre vacío", domain.ErrInvalidInput)
	}
	if in.AcquisitionCost != nil && in.AcquisitionCost.IsNegative() {
		return nil, fmt.Errorf("%w: costoAdquisicion negativo", domain.ErrInvalidInput)
	}
	var newDef []byte
	if len(in.Definition) > 0 {
		def, err := canonicalDefinition(in.Definition)
		if err != nil {
			return nil, err
		}
		if newDef, err = encodeDefinition(def); err != nil {
			return nil, err
		}
	}

	var out *entity.Asset
	err := uc.txRunner.Run(ctx, func(repos propagation.Repos) error {
		a, err := repos.Assets.GetByID(ctx, id)
		if err != nil {
			return persistenceErr("cargar activo", err)
		}
		if a == nil {
			return fmt.Errorf("%w: activo %s", domain.ErrNotFound, id)
		}
		if in.ParentID != nil && *in.ParentID != a.ParentID {
			if err := checkAssetParent(ctx, repos.Assets, id, *in.ParentID); err != nil {
				return err
			}
			a.ParentID = *in.ParentID
		}
		if in.Name != nil {
			a.Name = strings.TrimSpace(*in.Name)
		}
		if in.SerialNumber != nil {
			a.SerialNumber = strings.TrimSpace(*in.SerialNumber)
		}
		if in.AcquisitionCost != nil {
			a.AcquisitionCost = *in.AcquisitionCost
		}
		if newDef != nil {
			if a.SchemaField() == entity.FieldCustomData {
				a.CustomData = newDef
			} else {
				a.Definition = newDef
			}
		}
		a.UpdatedAt = time.Now()
		if err := repos.Assets.Update(ctx, a); err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toAssetResponse(out), nil
}

// Delete elimina un activo sin componentes.
func (uc *AssetUseCase) Delete(ctx context.Context, id string) error {
	return uc.repos.Assets.Delete(ctx, id)
}

// checkAssetParent valida que parentID exista y que asignarlo no forme un ciclo de composición.
func checkAssetParent(ctx context.Context, assets repository.AssetRepository, id, parentID string) error {
	if parentID == "" {
		return nil
	}
	seen := map[string]bool{id: true}
	for current := parentID; current != ""; {
		if seen[current] {
			return fmt.Errorf("%w: el activo %s no puede contener a su ancestro", domain.ErrConflict, id)
		}
		seen[current] = true
		a, err := assets.GetByID(ctx, current)
		if err != nil {
			return persistenceErr("cargar activo padre", err)
		}
		if a == nil {
			return fmt.Errorf("%w: activo %s", domain.ErrNotFound, current)
		}
		current = a.ParentID
	}
	return nil
}

func toAssetList(list []*entity.Asset, limit, offset int) *dto.AssetListResponse {
	items := make([]dto.AssetResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toAssetResponse(a))
	}
	return &dto.AssetListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}
}

func toAssetResponse(a *entity.Asset) *dto.AssetResponse {
	if a == nil {
		return nil
	}
	return &dto.AssetResponse{
		ID:              a.ID,
		ModelID:         a.ModelID,
		ParentID:        a.ParentID,
		Name:            a.Name,
		SerialNumber:    a.SerialNumber,
		AcquisitionCost: a.AcquisitionCost,
		Definition:      a.Definition,
		CustomData:      a.CustomData,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
