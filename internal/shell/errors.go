package shell

import "fmt"

// DegenerateError reports an element whose nodes are collinear
type DegenerateError struct {
	Element int
	Nodes   [3]int
}

func (e *DegenerateError) Error() string {
	return fmt.Sprintf("element %d has zero area (nodes %d, %d, %d)",
		e.Element, e.Nodes[0], e.Nodes[1], e.Nodes[2])
}
