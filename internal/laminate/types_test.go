package laminate

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexiusacademia/gopanel/internal/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quasiIsoJSON = `{
  "name": "quasi-iso",
  "materials": {
    "tape": {"preset": "KMU4"}
  },
  "plies": [
    {"material": "tape", "layers": 2, "angle": 0},
    {"material": "tape", "layers": 3, "angle": 45},
    {"material": "tape", "layers": 3, "angle": -45},
    {"material": "tape", "layers": 2, "angle": 90}
  ],
  "symmetric": true,
  "load": [100, 200, 300, 400, 500, 600]
}`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "laminate.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFileAndBuild(t *testing.T) {
	def, err := LoadFromFile(writeTemp(t, quasiIsoJSON))
	require.NoError(t, err)
	require.NotNil(t, def.Load)

	lam, err := def.Build()
	require.NoError(t, err)
	assert.Equal(t, "quasi-iso", lam.Name)
	assert.Equal(t, 8, lam.NPlies())
	assert.InEpsilon(t, 4.6e-3, lam.Thickness, rtol)
	assert.Same(t, lam.Ply(0).Material, lam.Ply(7).Material)

	s, err := lam.Stress(*def.Load)
	require.NoError(t, err)
	assert.InEpsilon(t, 4.48e8, s.Sig12Table().At(1, 0), rtol)
}

func TestBuildOwnMaterialAndRepeat(t *testing.T) {
	def := Definition{
		Name: "custom",
		Materials: map[string]MaterialDef{
			"glass": {Orthotropic: material.Orthotropic{E1: 4e10, E2: 1e10, Nu12: 0.28}},
		},
		Plies:  []PlyDef{{Material: "glass", Thickness: 1e-3, Angle: 0}},
		Repeat: 3,
	}

	lam, err := def.Build()
	require.NoError(t, err)
	assert.Equal(t, 3, lam.NPlies())
	assert.InDelta(t, 3e-3, lam.Thickness, 1e-12)
	assert.Equal(t, "glass", lam.Ply(0).Material.Name)
}

func TestBuildPresetByName(t *testing.T) {
	def := Definition{Plies: []PlyDef{{Material: "d16", Thickness: 2e-3}}}
	lam, err := def.Build()
	require.NoError(t, err)
	assert.InEpsilon(t, 2730*2e-3, lam.AreaDensity, 1e-12)
}

func TestDefinitionValidateAggregates(t *testing.T) {
	def := Definition{
		Materials: map[string]MaterialDef{"empty": {}},
		Plies: []PlyDef{
			{Material: "nope", Thickness: 1},
			{Material: "empty", Thickness: 1, Layers: 2},
			{Material: "STEEL"},
		},
		Repeat: -1,
	}
	err := def.Validate()
	var v *ValidationError
	require.True(t, errors.As(err, &v))
	assert.Len(t, v.Issues, 5)
	assert.Contains(t, err.Error(), "5 issues")

	_, err = def.Build()
	assert.Error(t, err)
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadFromFile(writeTemp(t, `{"plies": [`))
	assert.Error(t, err)

	_, err = LoadFromFile(writeTemp(t, `{"plies": []}`))
	var v *ValidationError
	assert.True(t, errors.As(err, &v))
}
