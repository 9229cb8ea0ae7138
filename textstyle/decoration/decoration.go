package decoration

import (
	"cmp"
	"reflect"
	"slices"

	"github.com/rdleal/intervalst/interval"
)

// DecorationTree leverages a interval tree to store overlapping decorations.
// Ranges are half-open byte ranges of the text.
type DecorationTree struct {
	tree *interval.MultiValueSearchTree[Decoration, int]
	size int
}

func NewDecorationTree() *DecorationTree {
	d := &DecorationTree{}
	d.Clear()
	return d
}

// Clear removes all decorations.
func (d *DecorationTree) Clear() {
	d.tree = interval.NewMultiValueSearchTree[Decoration](func(a, b int) int {
		return cmp.Compare(a, b)
	})
	d.size = 0
}

// Len returns the number of decorations in the tree.
func (d *DecorationTree) Len() int {
	return d.size
}

// Insert a new decoration. Empty and reversed ranges are ignored.
func (d *DecorationTree) Insert(deco Decoration) {
	start, end := deco.Range()
	if start >= end {
		return
	}
	if err := d.tree.Insert(start, end, deco); err != nil {
		logger.Warn("dropped decoration", "start", start, "end", end, "error", err)
		return
	}
	d.size++
}

// Query returns all decorations covering the byte at pos.
func (d *DecorationTree) Query(pos int) []Decoration {
	return d.QueryRange(pos, pos+1)
}

// QueryRange returns all decorations overlapping [start, end), ordered by
// priority.
func (d *DecorationTree) QueryRange(start, end int) []Decoration {
	if start >= end || d.size == 0 {
		return nil
	}

	all, _ := d.tree.AllIntersections(start, end)
	all = slices.DeleteFunc(all, func(deco Decoration) bool {
		s, e := deco.Range()
		return e <= start || s >= end
	})
	slices.SortStableFunc(all, func(a, b Decoration) int {
		return cmp.Compare(a.GetPriority(), b.GetPriority())
	})
	return all
}

// RemoveBySource removes every decoration whose source is source. Sources
// that are not comparable never match.
func (d *DecorationTree) RemoveBySource(source any) {
	if d.size == 0 {
		return
	}
	maxVals, found := d.tree.MaxEnd()
	if !found {
		return
	}
	_, end := maxVals[0].Range()
	all, _ := d.tree.AllIntersections(0, end)

	d.Clear()
	for _, deco := range all {
		if !sameSource(deco.Source(), source) {
			d.Insert(deco)
		}
	}
}

func sameSource(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || !va.Comparable() || !vb.Comparable() {
		return false
	}
	return a == b
}
