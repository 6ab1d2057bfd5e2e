package boundary

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NodeGroup names a set of panel nodes that boundary conditions apply to.
// Corners are named by their (x, y) position: N10 is x = length, y = 0.
type NodeGroup int

const (
	Left NodeGroup = iota
	Right
	Top
	Bottom
	N00
	N01
	N10
	N11
)

// NodeGroups lists every group.
var NodeGroups = []NodeGroup{Left, Right, Top, Bottom, N00, N01, N10, N11}

func (g NodeGroup) String() string {
	switch g {
	case Left:
		return "left"
	case Right:
		return "right"
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case N00:
		return "n00"
	case N01:
		return "n01"
	case N10:
		return "n10"
	case N11:
		return "n11"
	}
	return fmt.Sprintf("NodeGroup(%d)", int(g))
}

// ParseNodeGroup accepts the group names in any case.
func ParseNodeGroup(s string) (NodeGroup, error) {
	for _, g := range NodeGroups {
		if strings.EqualFold(strings.TrimSpace(s), g.String()) {
			return g, nil
		}
	}
	return 0, &KeyError{Kind: "node group", Key: s}
}

// MarshalJSON writes the group name.
func (g NodeGroup) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.String())
}

// UnmarshalJSON reads a group name.
func (g *NodeGroup) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseNodeGroup(s)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}
