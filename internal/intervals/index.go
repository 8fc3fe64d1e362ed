// Package intervals keeps minute-of-day ranges in an augmented interval tree so
// overlap checks do not have to scan every stored range.
package intervals

import (
	"sort"

	"github.com/Workiva/go-datastructures/augmentedtree"
)

// Span is a range of minutes since midnight, Low <= High.
type Span struct {
	Low  int
	High int
}

// Overlaps reports strict overlap: spans that only touch at an endpoint do not overlap.
func (s Span) Overlaps(other Span) bool {
	return s.Low < other.High && s.High > other.Low
}

// node adapts a Span to augmentedtree.Interval. Only one dimension is used.
type node struct {
	span Span
}

func (n node) LowAtDimension(uint64) int64 {
	return int64(n.span.Low)
}

func (n node) HighAtDimension(uint64) int64 {
	return int64(n.span.High)
}

func (n node) OverlapsAtDimension(iv augmentedtree.Interval, dimension uint64) bool {
	return int64(n.span.Low) < iv.HighAtDimension(dimension) &&
		int64(n.span.High) > iv.LowAtDimension(dimension)
}

// ID is unique per distinct span; minute values never exceed 16 bits.
func (n node) ID() uint64 {
	return uint64(n.span.Low)<<16 | uint64(n.span.High)
}

// Index is a set of spans supporting overlap queries.
type Index struct {
	tree  augmentedtree.Tree
	spans map[Span]struct{}
}

func New() *Index {
	return &Index{
		tree:  augmentedtree.New(1),
		spans: make(map[Span]struct{}),
	}
}

// Add inserts the span. Adding a span that is already present is a no-op.
func (ix *Index) Add(s Span) {
	if _, ok := ix.spans[s]; ok {
		return
	}
	ix.spans[s] = struct{}{}
	ix.tree.Add(node{span: s})
}

// Delete removes the span, reporting whether it was present.
func (ix *Index) Delete(s Span) bool {
	if _, ok := ix.spans[s]; !ok {
		return false
	}
	delete(ix.spans, s)
	ix.tree.Delete(node{span: s})
	return true
}

func (ix *Index) Len() int {
	return len(ix.spans)
}

// Overlapping returns every stored span strictly overlapping s, ordered by Low then High.
func (ix *Index) Overlapping(s Span) []Span {
	// The tree matches endpoint-touching spans too, so results are filtered again.
	found := ix.tree.Query(node{span: s})

	var result []Span
	for _, iv := range found {
		candidate := iv.(node).span
		if candidate.Overlaps(s) {
			result = append(result, candidate)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Low != result[j].Low {
			return result[i].Low < result[j].Low
		}
		return result[i].High < result[j].High
	})
	return result
}

// Any reports whether at least one stored span strictly overlaps s.
func (ix *Index) Any(s Span) bool {
	return len(ix.Overlapping(s)) > 0
}
