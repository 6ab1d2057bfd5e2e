package material

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCriteriaKnownStressStates(t *testing.T) {
	kmu4, err := Preset("KMU4")
	require.NoError(t, err)

	// principal stresses of plies of a [0/45/-45/90]s KMU4 laminate loaded
	// with [100, 200, 300, 400, 500, 600]
	tests := []struct {
		name string
		sig  [3]float64
		fi   [3]float64
		fos  [3]float64
	}{
		{"ply 1", [3]float64{4.168e6, 2.367e7, 3.188e7}, [3]float64{0.514, 0.507, 0.677}, [3]float64{1.94, 1.40, 1.29}},
		{"ply 2", [3]float64{4.478e8, -2.035e6, 9.437e6}, [3]float64{0.546, 0.322, 0.350}, [3]float64{1.83, 1.76, 1.77}},
		{"ply 3", [3]float64{-9.870e7, 1.353e7, -5.083e6}, [3]float64{0.282, 0.0972, 0.231}, [3]float64{3.55, 3.21, 2.88}},
		{"ply 7", [3]float64{-4.473e8, 2.029e6, -9.431e6}, [3]float64{0.447, 0.226, 0.210}, [3]float64{2.24, 2.10, 2.02}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crit, err := kmu4.Criteria(tt.sig)
			require.NoError(t, err)
			for i := 0; i < 3; i++ {
				assert.InEpsilon(t, tt.fi[i], crit[i].FailureIndex, 1e-2, "%s FI", crit[i].Type)
				assert.InEpsilon(t, tt.fos[i], crit[i].FactorOfSafety, 1e-2, "%s FOS", crit[i].Type)
				assert.InDelta(t, crit[i].FactorOfSafety-1, crit[i].MarginOfSafety, 1e-12)
			}
		})
	}
}

func TestCriteriaOrder(t *testing.T) {
	kmu4, _ := Preset("KMU4")
	crit, err := kmu4.Criteria([3]float64{1e8, 1e7, 1e7})
	require.NoError(t, err)
	for i, ct := range CriterionTypes {
		assert.Equal(t, ct, crit[i].Type)
	}
}

func TestMaxStressAllowableSelection(t *testing.T) {
	kmu4, _ := Preset("KMU4")

	c, err := kmu4.MaxStressCriterion([3]float64{4.1e8, 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, c.FailureIndex, 1e-12)
	assert.InDelta(t, 2.0, c.FactorOfSafety, 1e-12)
	assert.InDelta(t, 1.0, c.MarginOfSafety, 1e-12)

	c, err = kmu4.MaxStressCriterion([3]float64{-5e8, 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, c.FailureIndex, 1e-12)

	c, err = kmu4.MaxStressCriterion([3]float64{0, -7.5e7, 3.1e7})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, c.FailureIndex, 1e-12)
}

func TestZeroStressIsInfinitelySafe(t *testing.T) {
	kmu4, _ := Preset("KMU4")
	crit, err := kmu4.Criteria([3]float64{})
	require.NoError(t, err)
	for _, c := range crit {
		assert.Zero(t, c.FailureIndex, c.Type.String())
		assert.True(t, math.IsInf(c.FactorOfSafety, 1), c.Type.String())
	}
}

func TestCriteriaNumericDomain(t *testing.T) {
	// weak fiber direction and strong transverse direction make the
	// quadratic forms indefinite
	m := Orthotropic{
		Name: "odd", E1: 1e9, E2: 1e9, Nu12: 0.3,
		Sig1T: 1, Sig1C: 1, Sig2T: 10, Sig2C: 10, TauMax: 1,
	}
	require.NoError(t, m.Compute())
	sig := [3]float64{1, 5, 0}

	_, err := m.HillCriterion(sig)
	assert.True(t, errors.Is(err, ErrNumericDomain))

	_, err = m.HoffmanCriterion(sig)
	assert.True(t, errors.Is(err, ErrNumericDomain))

	_, err = m.Criteria(sig)
	assert.True(t, errors.Is(err, ErrNumericDomain))
}

func TestIndefiniteHoffmanRoots(t *testing.T) {
	// fiber tension stronger than compression and a strong transverse
	// direction: a < 0 with a real discriminant
	m := Orthotropic{
		Name: "indefinite", E1: 1e10, E2: 1e10, Nu12: 0.3,
		Sig1T: 1e9, Sig1C: 1e8, Sig2T: 1e10, Sig2C: 1e10, TauMax: 1e8,
	}
	require.NoError(t, m.Compute())

	tests := []struct {
		name string
		sig  [3]float64
		fos  float64
	}{
		{"both roots negative", [3]float64{1e7, 2e7, 0}, math.Inf(1)},
		{"smaller positive root", [3]float64{-1e7, -2e7, 0}, 12.97},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := m.HoffmanCriterion(tt.sig)
			require.NoError(t, err)
			if math.IsInf(tt.fos, 1) {
				assert.True(t, math.IsInf(c.FactorOfSafety, 1))
				assert.Less(t, c.FailureIndex, 0.0)
				return
			}
			assert.InEpsilon(t, tt.fos, c.FactorOfSafety, 1e-3)
			assert.Greater(t, c.FactorOfSafety, 0.0)
		})
	}
}

func TestCriteriaRequireStrengths(t *testing.T) {
	m := Orthotropic{Name: "soft", E1: 1e9, E2: 1e9, Nu12: 0.3, Sig1T: 1, Sig1C: 1}
	require.NoError(t, m.Compute())

	_, err := m.TsaiWuCriterion([3]float64{1, 0, 0})
	var cfg *ConfigError
	require.True(t, errors.As(err, &cfg))
	assert.Equal(t, "sig2t", cfg.Field)
}

func TestCriterionValue(t *testing.T) {
	c := Criterion{Type: Hill, FailureIndex: 0.25, FactorOfSafety: 2, MarginOfSafety: 1}

	for vt, want := range map[CriterionValueType]float64{FailureIndex: 0.25, FactorOfSafety: 2, MarginOfSafety: 1} {
		got, err := c.Value(vt)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := c.Value(CriterionValueType(7))
	var ke *KeyError
	assert.True(t, errors.As(err, &ke))
}

func TestParseCriterionValueType(t *testing.T) {
	for in, want := range map[string]CriterionValueType{"fi": FailureIndex, "FOS": FactorOfSafety, "margin-of-safety": MarginOfSafety} {
		got, err := ParseCriterionValueType(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseCriterionValueType("psi")
	assert.Error(t, err)
}

func TestCriterionJSONDropsInfinity(t *testing.T) {
	c := Criterion{Type: TsaiWu, FailureIndex: 0, FactorOfSafety: math.Inf(1), MarginOfSafety: math.Inf(1)}
	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"tsai-wu","failure_index":0,"factor_of_safety":null,"margin_of_safety":null}`, string(data))
}

func TestParseCriterionType(t *testing.T) {
	for _, ct := range CriterionTypes {
		got, err := ParseCriterionType(ct.String())
		require.NoError(t, err)
		assert.Equal(t, ct, got)
	}
	got, err := ParseCriterionType(" TsaiWu ")
	require.NoError(t, err)
	assert.Equal(t, TsaiWu, got)

	_, err = ParseCriterionType("von-mises")
	var ke *KeyError
	assert.True(t, errors.As(err, &ke))
}
