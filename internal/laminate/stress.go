package laminate

import (
	"github.com/alexiusacademia/gopanel/internal/material"
	"gonum.org/v1/gonum/mat"
)

// TableCriteria are the criterion columns of CriterionTable. Hoffman is
// evaluated for every ply but left out of the table.
var TableCriteria = []material.CriterionType{material.MaxStress, material.Hill, material.TsaiWu}

// Stress is the state of every ply under one load case
type Stress struct {
	Strain [6]float64  `json:"strain"` // mid-plane generalized strain
	Plies  []PlyStress `json:"plies"`
}

// Sig12Table stacks [σ1, σ2, τ12] of every ply, one row per ply.
func (s *Stress) Sig12Table() *mat.Dense {
	t := mat.NewDense(len(s.Plies), 3, nil)
	for i, p := range s.Plies {
		t.SetRow(i, p.Sig12[:])
	}
	return t
}

// CriterionTable stacks one value type of the MaxStress, Hill and TsaiWu
// criteria, one row per ply.
func (s *Stress) CriterionTable(vt material.CriterionValueType) (*mat.Dense, error) {
	t := mat.NewDense(len(s.Plies), len(TableCriteria), nil)
	for i, p := range s.Plies {
		for j, ct := range TableCriteria {
			v, err := p.Criteria[ct].Value(vt)
			if err != nil {
				return nil, err
			}
			t.Set(i, j, v)
		}
	}
	return t, nil
}

// Critical returns the ply with the largest failure index for a criterion,
// or -1 when there are no plies.
func (s *Stress) Critical(ct material.CriterionType) (int, material.Criterion) {
	idx := -1
	var worst material.Criterion
	for i, p := range s.Plies {
		c := p.Criteria[ct]
		if idx < 0 || c.FailureIndex > worst.FailureIndex {
			idx, worst = i, c
		}
	}
	return idx, worst
}
