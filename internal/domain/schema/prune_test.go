package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Flota-api/internal/domain/schema"
)

func TestPruneKeys_EliminaSoloSinProcedencia(t *testing.T) {
	oldDef := schema.Definition{"x": 1.0, "y": 2.0}
	current := schema.Definition{"y": 2.0}
	merged := schema.Definition{"x": 1.0, "y": 2.0, "z": 3.0}

	got := schema.PruneKeys(merged, oldDef.Keys(), current.Keys(), schema.KeySet{})

	assert.Equal(t, schema.Definition{"y": 2.0, "z": 3.0}, got)
	assert.Equal(t, []string{"x"}, schema.DroppedKeys(merged, oldDef.Keys(), current.Keys(), schema.KeySet{}))
}

func TestPruneKeys_OtroGrupoConservaLaClave(t *testing.T) {
	oldDef := schema.Definition{"x": 1.0}
	merged := schema.Definition{"x": 1.0}
	others := schema.KeySet{"x": {}}

	got := schema.PruneKeys(merged, oldDef.Keys(), schema.KeySet{}, others)

	assert.Equal(t, merged, got)
}
