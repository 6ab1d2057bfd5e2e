package boundary

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DOF is the number of degrees of freedom carried by a node.
const DOF = 6

// DofType is one nodal degree of freedom
type DofType int

const (
	TX DofType = iota // translation along x
	TY
	TZ
	RX // rotation about x
	RY
	RZ
)

// DofTypes lists the degrees of freedom in vector order.
var DofTypes = [DOF]DofType{TX, TY, TZ, RX, RY, RZ}

func (d DofType) String() string {
	switch d {
	case TX:
		return "tx"
	case TY:
		return "ty"
	case TZ:
		return "tz"
	case RX:
		return "rx"
	case RY:
		return "ry"
	case RZ:
		return "rz"
	}
	return fmt.Sprintf("DofType(%d)", int(d))
}

// ParseDofType accepts tx, ty, tz, rx, ry, rz in any case.
func ParseDofType(s string) (DofType, error) {
	for _, d := range DofTypes {
		if strings.EqualFold(strings.TrimSpace(s), d.String()) {
			return d, nil
		}
	}
	return 0, &KeyError{Kind: "degree of freedom", Key: s}
}

// MarshalJSON writes the dof name.
func (d DofType) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON reads a dof name.
func (d *DofType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDofType(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Constraint is the state of one degree of freedom
type Constraint uint8

const (
	Free Constraint = iota
	Fixed
)

// Combine superposes two constraint states; fixed wins.
func (c Constraint) Combine(other Constraint) Constraint {
	if c == Fixed || other == Fixed {
		return Fixed
	}
	return Free
}

func (c Constraint) String() string {
	if c == Fixed {
		return "fixed"
	}
	return "free"
}

// ConstraintVector holds one constraint per degree of freedom. The zero
// value is totally free.
type ConstraintVector [DOF]Constraint

// NewFixed returns a vector with every degree of freedom fixed.
func NewFixed() ConstraintVector {
	var cv ConstraintVector
	for i := range cv {
		cv[i] = Fixed
	}
	return cv
}

// NewConstraint fixes only the listed degrees of freedom.
func NewConstraint(dofs ...DofType) ConstraintVector {
	var cv ConstraintVector
	for _, d := range dofs {
		cv[d] = Fixed
	}
	return cv
}

// Set returns a copy with one degree of freedom changed.
func (cv ConstraintVector) Set(d DofType, c Constraint) ConstraintVector {
	cv[d] = c
	return cv
}

// Get returns the constraint of one degree of freedom.
func (cv ConstraintVector) Get(d DofType) Constraint {
	return cv[d]
}

// Combine superposes two vectors component by component.
func (cv ConstraintVector) Combine(other ConstraintVector) ConstraintVector {
	for i := range cv {
		cv[i] = cv[i].Combine(other[i])
	}
	return cv
}

// IsFree reports whether no degree of freedom is fixed.
func (cv ConstraintVector) IsFree() bool {
	for _, c := range cv {
		if c == Fixed {
			return false
		}
	}
	return true
}

// FixedDofs lists the fixed degrees of freedom in vector order.
func (cv ConstraintVector) FixedDofs() []DofType {
	var out []DofType
	for _, d := range DofTypes {
		if cv[d] == Fixed {
			out = append(out, d)
		}
	}
	return out
}

// ForceVector holds nodal forces and moments
type ForceVector struct {
	FX float64 `json:"fx"`
	FY float64 `json:"fy"`
	FZ float64 `json:"fz"`
	MX float64 `json:"mx"`
	MY float64 `json:"my"`
	MZ float64 `json:"mz"`
}

// Add superposes two force vectors.
func (f ForceVector) Add(other ForceVector) ForceVector {
	return ForceVector{
		FX: f.FX + other.FX,
		FY: f.FY + other.FY,
		FZ: f.FZ + other.FZ,
		MX: f.MX + other.MX,
		MY: f.MY + other.MY,
		MZ: f.MZ + other.MZ,
	}
}

// Component returns the force or moment along one degree of freedom.
func (f ForceVector) Component(d DofType) float64 {
	switch d {
	case TX:
		return f.FX
	case TY:
		return f.FY
	case TZ:
		return f.FZ
	case RX:
		return f.MX
	case RY:
		return f.MY
	case RZ:
		return f.MZ
	}
	return 0
}

// IsZero reports whether every component is zero.
func (f ForceVector) IsZero() bool {
	return f == ForceVector{}
}

// Assignment is a constraint and a force applied to every node of a group
type Assignment struct {
	Group      NodeGroup
	Constraint ConstraintVector
	Force      ForceVector
}

// Resolve superposes assignments per group: constraints are combined and
// forces summed, in assignment order.
func Resolve(assignments []Assignment) map[NodeGroup]Assignment {
	out := make(map[NodeGroup]Assignment)
	for _, a := range assignments {
		cur := out[a.Group]
		cur.Group = a.Group
		cur.Constraint = cur.Constraint.Combine(a.Constraint)
		cur.Force = cur.Force.Add(a.Force)
		out[a.Group] = cur
	}
	return out
}

// KeyError reports an unknown name
type KeyError struct {
	Kind string
	Key  string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Key)
}
