package propagation

import (
	"context"
	"fmt"

	"github.com/jhoicas/Flota-api/internal/domain"
	"github.com/jhoicas/Flota-api/internal/domain/repository"
)

// SubGroupIDs devuelve rootID más todos sus descendientes (hijos, nietos, ...) siguiendo parent_id
// hacia abajo, nivel por nivel. El conjunto de visitados corta cualquier ciclo en datos corruptos.
func SubGroupIDs(ctx context.Context, groups repository.GroupRepository, rootID string) ([]string, error) {
	visited := map[string]bool{rootID: true}
	ids := []string{rootID}
	frontier := []string{rootID}
	for len(frontier) > 0 {
		children, err := groups.ListChildIDs(ctx, frontier)
		if err != nil {
			return nil, fmt.Errorf("%w: hijos de grupos %v: %w", domain.ErrPersistence, frontier, err)
		}
		var next []string
		for _, id := range children {
			if visited[id] {
				continue
			}
			visited[id] = true
			ids = append(ids, id)
			next = append(next, id)
		}
		frontier = next
	}
	return ids, nil
}
