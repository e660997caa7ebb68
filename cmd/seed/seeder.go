package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/Flota-api/internal/application/dto"
	"github.com/jhoicas/Flota-api/internal/application/usecase"
)

// catalog catálogo inicial; las referencias entre registros son por nombre.
type catalog struct {
	Groups []struct {
		Name       string          `json:"nombre"`
		Parent     string          `json:"parent"`
		Definition json.RawMessage `json:"definicion"`
	} `json:"grupos"`
	Categories []struct {
		Name       string          `json:"nombre"`
		Groups     []string        `json:"grupos"`
		Definition json.RawMessage `json:"definicion"`
	} `json:"categorias"`
	Models []struct {
		Name         string          `json:"nombre"`
		Category     string          `json:"categoria"`
		Manufacturer string          `json:"fabricante"`
		Definition   json.RawMessage `json:"definicion"`
	} `json:"modelos"`
}

// summary cantidad de registros creados y omitidos (ya existían) por tipo.
type summary struct {
	Groups     int `json:"grupos"`
	Categories int `json:"categorias"`
	Models     int `json:"modelos"`
	Skipped    int `json:"omitidos"`
}

type seeder struct {
	groups     *usecase.GroupUseCase
	categories *usecase.CategoryUseCase
	models     *usecase.ModelUseCase
}

// Apply crea lo que falte del catálogo. Es idempotente: un registro con el mismo nombre (y, en
// modelos, la misma categoría) no se vuelve a crear ni se modifica.
func (s *seeder) Apply(ctx context.Context, c catalog) (summary, error) {
	var sum summary

	groupIDs, err := s.groupIndex(ctx)
	if err != nil {
		return sum, err
	}
	for _, g := range c.Groups {
		if _, ok := groupIDs[g.Name]; ok {
			sum.Skipped++
			continue
		}
		parentID := ""
		if g.Parent != "" {
			id, ok := groupIDs[g.Parent]
			if !ok {
				return sum, fmt.Errorf("grupo %q: el padre %q debe declararse antes", g.Name, g.Parent)
			}
			parentID = id
		}
		out, err := s.groups.Create(ctx, dto.CreateGroupRequest{Name: g.Name, ParentID: parentID, Definition: g.Definition})
		if err != nil {
			return sum, fmt.Errorf("grupo %q: %w", g.Name, err)
		}
		groupIDs[g.Name] = out.ID
		sum.Groups++
	}

	categoryIDs, err := s.categoryIndex(ctx)
	if err != nil {
		return sum, err
	}
	for _, cat := range c.Categories {
		if _, ok := categoryIDs[cat.Name]; ok {
			sum.Skipped++
			continue
		}
		ids := make([]string, 0, len(cat.Groups))
		for _, name := range cat.Groups {
			id, ok := groupIDs[name]
			if !ok {
				return sum, fmt.Errorf("categoría %q: grupo %q desconocido", cat.Name, name)
			}
			ids = append(ids, id)
		}
		out, err := s.categories.Create(ctx, dto.CreateCategoryRequest{Name: cat.Name, Definition: cat.Definition, GroupIDs: ids})
		if err != nil {
			return sum, fmt.Errorf("categoría %q: %w", cat.Name, err)
		}
		categoryIDs[cat.Name] = out.ID
		sum.Categories++
	}

	for _, m := range c.Models {
		categoryID, ok := categoryIDs[m.Category]
		if !ok {
			return sum, fmt.Errorf("modelo %q: categoría %q desconocida", m.Name, m.Category)
		}
		exists, err := s.modelExists(ctx, categoryID, m.Name)
		if err != nil {
			return sum, err
		}
		if exists {
			sum.Skipped++
			continue
		}
		_, err = s.models.Create(ctx, dto.CreateModelRequest{
			CategoryID:   categoryID,
			Name:         m.Name,
			Manufacturer: m.Manufacturer,
			Definition:   m.Definition,
		})
		if err != nil {
			return sum, fmt.Errorf("modelo %q: %w", m.Name, err)
		}
		sum.Models++
	}
	return sum, nil
}

const pageSize = 100

func (s *seeder) groupIndex(ctx context.Context) (map[string]string, error) {
	index := map[string]string{}
	for offset := 0; ; offset += pageSize {
		page, err := s.groups.List(ctx, pageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, g := range page.Items {
			index[g.Name] = g.ID
		}
		if len(page.Items) < pageSize {
			return index, nil
		}
	}
}

func (s *seeder) categoryIndex(ctx context.Context) (map[string]string, error) {
	index := map[string]string{}
	for offset := 0; ; offset += pageSize {
		page, err := s.categories.List(ctx, pageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, c := range page.Items {
			index[c.Name] = c.ID
		}
		if len(page.Items) < pageSize {
			return index, nil
		}
	}
}

func (s *seeder) modelExists(ctx context.Context, categoryID, name string) (bool, error) {
	for offset := 0; ; offset += pageSize {
		page, err := s.models.List(ctx, categoryID, pageSize, offset)
		if err != nil {
			return false, err
		}
		for _, m := range page.Items {
			if m.Name == name {
				return true, nil
			}
		}
		if len(page.Items) < pageSize {
			return false, nil
		}
	}
}
