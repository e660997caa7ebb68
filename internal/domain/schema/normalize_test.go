package schema_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Flota-api/internal/domain/schema"
)

func mustDecode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestNormalize_ListaYMapaSonEquivalentes(t *testing.T) {
	list := []any{map[string]any{"id": "a", "label": "A", "dataType": "string", "tempKey": "tmp-1"}}
	mapping := map[string]any{"a": map[string]any{"id": "a", "label": "A", "dataType": "string", "key": "a"}}

	want := schema.Definition{"a": map[string]any{"id": "a", "label": "A", "dataType": "string"}}

	if diff := cmp.Diff(want, schema.Normalize(list)); diff != "" {
		t.Errorf("lista normalizada (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, schema.Normalize(mapping)); diff != "" {
		t.Errorf("mapa normalizado (-want +got):\n%s", diff)
	}
}

func TestNormalize_Idempotente(t *testing.T) {
	inputs := map[string]string{
		"lista": `[
			{"label": "Potencia Máxima", "dataType": "number", "key": "x1"},
			{"nombre": "Tipo de combustible", "dataType": "select", "options": ["diesel", "gasolina"]},
			{"dataType": "string"},
			{"label": "Motor", "dataType": "object", "definicion": [{"label": "Cilindros", "dataType": "number", "tempKey": "t"}]},
			{}
		]`,
		"mapa": `{
			"motor": {"id": "motor", "dataType": "grupo", "subGrupo": {"id": "g1", "definicion": [{"label": "Serie", "dataType": "string"}]}},
			"vacio": {},
			"nulo": null,
			"placa": "ABC-123",
			"kilometraje": 120000
		}`,
	}
	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			once := schema.Normalize(mustDecode(t, raw))
			twice := schema.Normalize(once)
			if diff := cmp.Diff(once, twice); diff != "" {
				t.Errorf("normalizar dos veces cambió el resultado (-once +twice):\n%s", diff)
			}
		})
	}
}

func TestNormalize_DerivaClavesDesdeLista(t *testing.T) {
	def := schema.Normalize(mustDecode(t, `[
		{"id": "VIN", "dataType": "string"},
		{"label": "  Año de Fabricación ", "dataType": "number"},
		{"nombre": "Peso (kg)", "dataType": "number"},
		{"label": "Peso kg", "dataType": "number"},
		{"label": "Presión Máx.", "dataType": "number"}
	]`))

	assert.Contains(t, def, "vin")
	assert.Contains(t, def, "ano_de_fabricacion")
	assert.Contains(t, def, "peso_kg")
	assert.Contains(t, def, "peso_kg_2", "las colisiones de clave reciben sufijo")
	assert.Contains(t, def, "presion_max", "los acentos se pliegan, no se borran")
	assert.Len(t, def, 5)
}

func TestNormalize_ClaveAleatoriaSinIdentificador(t *testing.T) {
	def := schema.Normalize([]any{map[string]any{"dataType": "boolean"}})
	require.Len(t, def, 1)
	for key := range def {
		assert.True(t, strings.HasPrefix(key, "k_"), "clave generada: %s", key)
	}
}

func TestNormalize_DescartaPlaceholdersYCamposUI(t *testing.T) {
	def := schema.Normalize(map[string]any{
		"ok":    map[string]any{"label": "OK", "key": "ok", "tempKey": "t"},
		"vacio": map[string]any{"inputType": "text"},
	})
	want := schema.Definition{"ok": map[string]any{"label": "OK"}}
	if diff := cmp.Diff(want, def); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestNormalize_RecursaEnObjetoYSubGrupo(t *testing.T) {
	def := schema.Normalize(mustDecode(t, `{
		"motor": {"label": "Motor", "dataType": "object", "definicion": [{"label": "Cilindros", "dataType": "number", "key": "c"}]},
		"chasis": {"label": "Chasis", "dataType": "grupo", "subGrupo": {"definicion": [{"id": "serie", "dataType": "string"}]}}
	}`))

	motor := def["motor"].(map[string]any)
	assert.Equal(t, map[string]any{"cilindros": map[string]any{"label": "Cilindros", "dataType": "number"}}, motor["definicion"])

	chasis := def["chasis"].(map[string]any)
	sub := chasis["subGrupo"].(map[string]any)
	assert.Equal(t, map[string]any{"serie": map[string]any{"id": "serie", "dataType": "string"}}, sub["definicion"])
}

func TestNormalize_EntradasInvalidasDanMapaVacio(t *testing.T) {
	for _, in := range []any{nil, "texto", 42.0, true} {
		assert.Equal(t, schema.Definition{}, schema.Normalize(in))
	}
	assert.Equal(t, schema.Definition{}, schema.NormalizeJSON([]byte(`{no es json`)))
	assert.Equal(t, schema.Definition{}, schema.NormalizeJSON(nil))
}

func TestNormalize_NoAliaLaEntrada(t *testing.T) {
	inner := map[string]any{"label": "A", "dataType": "string"}
	in := map[string]any{"a": inner}
	out := schema.Normalize(in)
	out["a"].(map[string]any)["label"] = "cambiado"
	assert.Equal(t, "A", inner["label"])
}
