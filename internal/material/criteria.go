package material

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// CriterionType identifies a failure criterion
type CriterionType int

const (
	MaxStress CriterionType = iota
	Hill
	TsaiWu
	Hoffman
)

// CriterionTypes lists every criterion in evaluation order.
var CriterionTypes = []CriterionType{MaxStress, Hill, TsaiWu, Hoffman}

func (t CriterionType) String() string {
	switch t {
	case MaxStress:
		return "max-stress"
	case Hill:
		return "hill"
	case TsaiWu:
		return "tsai-wu"
	case Hoffman:
		return "hoffman"
	}
	return fmt.Sprintf("CriterionType(%d)", int(t))
}

// ParseCriterionType accepts the names printed by String.
func ParseCriterionType(s string) (CriterionType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, t := range CriterionTypes {
		if key == t.String() {
			return t, nil
		}
	}
	switch key {
	case "maxstress", "max_stress":
		return MaxStress, nil
	case "tsaiwu", "tsai_wu":
		return TsaiWu, nil
	}
	return 0, &KeyError{Kind: "criterion", Key: s}
}

// CriterionValueType selects one of the three equivalent representations of
// a criterion result.
type CriterionValueType int

const (
	FailureIndex CriterionValueType = iota
	FactorOfSafety
	MarginOfSafety
)

func (v CriterionValueType) String() string {
	switch v {
	case FailureIndex:
		return "fi"
	case FactorOfSafety:
		return "fos"
	case MarginOfSafety:
		return "mos"
	}
	return fmt.Sprintf("CriterionValueType(%d)", int(v))
}

// ParseCriterionValueType accepts "fi", "fos", "mos" or their long names.
func ParseCriterionValueType(s string) (CriterionValueType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fi", "failure-index", "failure_index":
		return FailureIndex, nil
	case "fos", "factor-of-safety", "factor_of_safety":
		return FactorOfSafety, nil
	case "mos", "margin-of-safety", "margin_of_safety":
		return MarginOfSafety, nil
	}
	return 0, &KeyError{Kind: "criterion value type", Key: s}
}

// Criterion is one evaluated failure metric
type Criterion struct {
	Type           CriterionType
	FailureIndex   float64
	FactorOfSafety float64
	MarginOfSafety float64
}

// Value returns the requested representation of the criterion.
func (c Criterion) Value(vt CriterionValueType) (float64, error) {
	switch vt {
	case FailureIndex:
		return c.FailureIndex, nil
	case FactorOfSafety:
		return c.FactorOfSafety, nil
	case MarginOfSafety:
		return c.MarginOfSafety, nil
	}
	return 0, &KeyError{Kind: "criterion value type", Key: vt.String()}
}

// MarshalJSON writes non-finite safety factors as null.
func (c Criterion) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type           string   `json:"type"`
		FailureIndex   *float64 `json:"failure_index"`
		FactorOfSafety *float64 `json:"factor_of_safety"`
		MarginOfSafety *float64 `json:"margin_of_safety"`
	}{
		Type:           c.Type.String(),
		FailureIndex:   finite(c.FailureIndex),
		FactorOfSafety: finite(c.FactorOfSafety),
		MarginOfSafety: finite(c.MarginOfSafety),
	})
}

func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

func newCriterion(t CriterionType, fi, fos float64) Criterion {
	return Criterion{Type: t, FailureIndex: fi, FactorOfSafety: fos, MarginOfSafety: fos - 1}
}

// checkStrengths fails with the first missing allowable.
func (m *Orthotropic) checkStrengths() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"sig1t", m.Sig1T},
		{"sig1c", m.Sig1C},
		{"sig2t", m.Sig2T},
		{"sig2c", m.Sig2C},
		{"tau_max", m.TauMax},
	}
	for _, f := range fields {
		if f.value <= 0 {
			return &ConfigError{Material: m.Name, Field: f.name}
		}
	}
	return nil
}

// MaxStressCriterion compares each stress component with its allowable.
// The tension allowable applies to zero and positive stresses.
func (m *Orthotropic) MaxStressCriterion(sig12 [3]float64) (Criterion, error) {
	if err := m.checkStrengths(); err != nil {
		return Criterion{}, err
	}
	sig1, sig2, tau12 := sig12[0], sig12[1], sig12[2]

	allow1 := m.Sig1C
	if sig1 >= 0 {
		allow1 = m.Sig1T
	}
	allow2 := m.Sig2C
	if sig2 >= 0 {
		allow2 = m.Sig2T
	}

	fi := math.Max(math.Abs(sig1/allow1), math.Max(math.Abs(sig2/allow2), math.Abs(tau12/m.TauMax)))
	return newCriterion(MaxStress, fi, 1/fi), nil
}

// HillCriterion evaluates the Hill quadratic interaction index.
func (m *Orthotropic) HillCriterion(sig12 [3]float64) (Criterion, error) {
	if err := m.checkStrengths(); err != nil {
		return Criterion{}, err
	}
	sig1, sig2, tau12 := sig12[0], sig12[1], sig12[2]

	fxx := 1 / (m.Sig1C * m.Sig1C)
	if sig1 >= 0 {
		fxx = 1 / (m.Sig1T * m.Sig1T)
	}
	fyy := 1 / (m.Sig2C * m.Sig2C)
	if sig2 >= 0 {
		fyy = 1 / (m.Sig2T * m.Sig2T)
	}
	fxy := -1 / (m.Sig1C * m.Sig1C)
	if sig1*sig2 >= 0 {
		fxy = -1 / (m.Sig1T * m.Sig1T)
	}
	fss := 1 / (m.TauMax * m.TauMax)

	fi := fxx*sig1*sig1 + fyy*sig2*sig2 + fxy*sig1*sig2 + fss*tau12*tau12
	if fi < 0 {
		return Criterion{}, fmt.Errorf("hill index %g: %w", fi, ErrNumericDomain)
	}
	return newCriterion(Hill, fi, 1/math.Sqrt(fi)), nil
}

// TsaiWuCriterion uses an interaction coefficient of 1 for Fxy.
func (m *Orthotropic) TsaiWuCriterion(sig12 [3]float64) (Criterion, error) {
	if err := m.checkStrengths(); err != nil {
		return Criterion{}, err
	}
	fxx := 1 / (m.Sig1T * m.Sig1C)
	fyy := 1 / (m.Sig2T * m.Sig2C)
	const ixy = 1.0
	fxy := -ixy * math.Sqrt(fxx*fyy)
	return m.quadratic(TsaiWu, sig12, fxy)
}

// HoffmanCriterion differs from Tsai-Wu only in Fxy.
func (m *Orthotropic) HoffmanCriterion(sig12 [3]float64) (Criterion, error) {
	if err := m.checkStrengths(); err != nil {
		return Criterion{}, err
	}
	fxy := -1 / (m.Sig1T * m.Sig1C)
	return m.quadratic(Hoffman, sig12, fxy)
}

// quadratic solves a·FOS² + b·FOS − 1 = 0 for the positive root.
func (m *Orthotropic) quadratic(t CriterionType, sig12 [3]float64, fxy float64) (Criterion, error) {
	sig1, sig2, tau12 := sig12[0], sig12[1], sig12[2]

	fx := 1/m.Sig1T - 1/m.Sig1C
	fy := 1/m.Sig2T - 1/m.Sig2C
	fxx := 1 / (m.Sig1T * m.Sig1C)
	fyy := 1 / (m.Sig2T * m.Sig2C)
	fss := 1 / (m.TauMax * m.TauMax)

	a := fxx*sig1*sig1 + fyy*sig2*sig2 + fxy*sig1*sig2 + fss*tau12*tau12
	b := fx*sig1 + fy*sig2
	fi := a + b

	if a == 0 {
		if b > 0 {
			return newCriterion(t, fi, 1/b), nil
		}
		return newCriterion(t, fi, math.Inf(1)), nil
	}

	disc := b*b + 4*a
	if disc < 0 {
		return Criterion{}, fmt.Errorf("%s discriminant %g: %w", t, disc, ErrNumericDomain)
	}
	// an indefinite form with b ≤ 0 has no positive root: scaling the load
	// never reaches failure
	if a < 0 && b <= 0 {
		return newCriterion(t, fi, math.Inf(1)), nil
	}
	fos := (-b + math.Sqrt(disc)) / (2 * a)
	return newCriterion(t, fi, fos), nil
}

// Criteria evaluates MaxStress, Hill, TsaiWu and Hoffman in that order.
func (m *Orthotropic) Criteria(sig12 [3]float64) ([4]Criterion, error) {
	var out [4]Criterion
	evaluators := [4]func([3]float64) (Criterion, error){
		m.MaxStressCriterion,
		m.HillCriterion,
		m.TsaiWuCriterion,
		m.HoffmanCriterion,
	}
	for i, eval := range evaluators {
		c, err := eval(sig12)
		if err != nil {
			return out, err
		}
		out[i] = c
	}
	return out, nil
}
