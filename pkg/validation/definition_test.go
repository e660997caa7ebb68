package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Flota-api/internal/domain"
)

func TestValidateDefinition_Validas(t *testing.T) {
	cases := map[string]string{
		"vacía":                ``,
		"null":                 `null`,
		"lista":                `[{"id":"potencia","label":"Potencia","dataType":"number","defaultValue":400},null]`,
		"id numérico":          `[{"id":7,"label":"Siete"}]`,
		"mapa":                 `{"potencia":{"label":"Potencia","dataType":"number"}}`,
		"valores de instancia": `{"placa":"ABC123","kilometraje":120000,"potencia":{"label":"Potencia"}}`,
		"anidada":              `{"motor":{"label":"Motor","dataType":"object","definicion":[{"id":"cilindros","dataType":"number"}]}}`,
		"subgrupo":             `{"frenos":{"label":"Frenos","dataType":"grupo","subGrupo":{"definicion":{"abs":{"label":"ABS"}}}}}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, ValidateDefinition(json.RawMessage(raw)))
		})
	}
}

func TestValidateDefinition_Invalidas(t *testing.T) {
	cases := map[string]string{
		"escalar":            `42`,
		"texto":              `"hola"`,
		"lista de escalares": `[1,2,3]`,
		"label no texto":     `[{"id":"x","label":5}]`,
		"dataType vacío":     `{"x":{"dataType":""}}`,
		"anidada inválida":   `{"motor":{"dataType":"object","definicion":"no"}}`,
		"mal formado":        `{"x":`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			err := ValidateDefinition(json.RawMessage(raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			var defErr *DefinitionError
			require.ErrorAs(t, err, &defErr)
			assert.NotEmpty(t, defErr.Details)
		})
	}
}
