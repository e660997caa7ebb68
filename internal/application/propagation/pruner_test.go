package propagation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Flota-api/internal/application/propagation"
	"github.com/jhoicas/Flota-api/internal/domain/schema"
)

func TestPruner_SinRemoveMissingNoTocaNada(t *testing.T) {
	f := newFixture(t)
	p := propagation.NewPruner(f.repos.Groups, f.repos.Categories)
	merged := schema.Definition{"x": 1.0, "y": 2.0}

	got, dropped, err := p.Prune(f.ctx, merged, schema.Definition{}, propagation.PruneOptions{
		RemoveMissing:        false,
		PropagateFromGroupID: "g1",
		CategoryID:           "c1",
		OldDef:               schema.Definition{"x": 1.0, "y": 2.0},
	})

	require.NoError(t, err)
	assert.Equal(t, merged, got)
	assert.Empty(t, dropped)
}

func TestPruner_SinOldDefNoTocaNada(t *testing.T) {
	f := newFixture(t)
	p := propagation.NewPruner(f.repos.Groups, f.repos.Categories)
	merged := schema.Definition{"x": 1.0}

	for name, opts := range map[string]propagation.PruneOptions{
		"sin oldDef":    {RemoveMissing: true, PropagateFromGroupID: "g1", CategoryID: "c1"},
		"sin grupo":     {RemoveMissing: true, CategoryID: "c1", OldDef: schema.Definition{"x": 1.0}},
		"sin categoria": {RemoveMissing: true, PropagateFromGroupID: "g1", OldDef: schema.Definition{"x": 1.0}},
	} {
		t.Run(name, func(t *testing.T) {
			got, _, err := p.Prune(f.ctx, merged, schema.Definition{}, opts)
			require.NoError(t, err)
			assert.Equal(t, merged, got)
		})
	}
}

func TestPruner_EliminaClaveSinProcedencia(t *testing.T) {
	f := newFixture(t)
	f.group("g1", "", `{"y": {"label": "Y"}}`)
	f.category("c1", `{}`, "g1")
	p := propagation.NewPruner(f.repos.Groups, f.repos.Categories)

	got, dropped, err := p.Prune(f.ctx,
		schema.Definition{"x": 1.0, "y": 2.0, "z": 3.0},
		schema.Definition{"y": 2.0},
		propagation.PruneOptions{
			RemoveMissing:        true,
			PropagateFromGroupID: "g1",
			CategoryID:           "c1",
			OldDef:               schema.Definition{"x": 1.0, "y": 2.0},
		})

	require.NoError(t, err)
	assert.Equal(t, schema.Definition{"y": 2.0, "z": 3.0}, got)
	assert.Equal(t, []string{"x"}, dropped)
}

func TestPruner_GrupoHermanoConservaLaClave(t *testing.T) {
	f := newFixture(t)
	f.group("g1", "", `{}`)
	f.group("g2", "", `{"x": {"label": "X"}}`)
	f.category("c1", `{}`, "g1", "g2")
	p := propagation.NewPruner(f.repos.Groups, f.repos.Categories)

	got, dropped, err := p.Prune(f.ctx,
		schema.Definition{"x": 1.0},
		schema.Definition{},
		propagation.PruneOptions{
			RemoveMissing:        true,
			PropagateFromGroupID: "g1",
			CategoryID:           "c1",
			OldDef:               schema.Definition{"x": 1.0},
		})

	require.NoError(t, err)
	assert.Equal(t, schema.Definition{"x": 1.0}, got)
	assert.Empty(t, dropped)
}
