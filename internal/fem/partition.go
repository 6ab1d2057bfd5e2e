package fem

import (
	"fmt"
	"math"
	"strings"
)

// PartitionStrategy defines how elements are grouped across workers
type PartitionStrategy int

const (
	BlockPartition PartitionStrategy = iota // consecutive elements
	RoundRobin                              // distribute cyclically
)

func (s PartitionStrategy) String() string {
	if s == RoundRobin {
		return "round-robin"
	}
	return "block"
}

// ParsePartitionStrategy accepts "block" or "round-robin".
func ParsePartitionStrategy(s string) (PartitionStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "block":
		return BlockPartition, nil
	case "round-robin", "roundrobin", "rr":
		return RoundRobin, nil
	}
	return 0, fmt.Errorf("unknown partition strategy %q", s)
}

// PartitionBuilder splits element indices into partitions
type PartitionBuilder struct {
	NumElements   int
	NumPartitions int
	Strategy      PartitionStrategy
}

// Build returns the element indices of each partition. Elements keep their
// ascending order inside a partition. Empty partitions are dropped.
func (pb *PartitionBuilder) Build() [][]int {
	n := pb.NumPartitions
	if n < 1 {
		n = 1
	}
	if n > pb.NumElements && pb.NumElements > 0 {
		n = pb.NumElements
	}

	parts := make([][]int, n)
	switch pb.Strategy {
	case RoundRobin:
		for e := 0; e < pb.NumElements; e++ {
			parts[e%n] = append(parts[e%n], e)
		}
	default:
		perPart := int(math.Ceil(float64(pb.NumElements) / float64(n)))
		for e := 0; e < pb.NumElements; e++ {
			p := e / perPart
			if p >= n {
				p = n - 1
			}
			parts[p] = append(parts[p], e)
		}
	}

	out := parts[:0]
	for _, p := range parts {
		if len(p) > 0 {
			out = append(out, p)
		}
	}
	return out
}
