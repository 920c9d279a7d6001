package mapping

import (
	"fmt"
	"sort"

	"github.com/tommysiu/beanio/errorsx"
)

// LayoutNode is the runtime shadow of a Node: one per reader/writer
// instance, carrying the per-stream activation counter and (for group
// nodes) the bookkeeping needed for matchNext/close. Parent pointers
// are plain fields, not arena indices, since the tree is owned
// exclusively by the reader/writer that built it.
type LayoutNode struct {
	Def      Node
	Current  int
	Parent   *LayoutNode
	Children []*LayoutNode // populated only for group nodes

	started      bool
	inProgress   *LayoutNode
	cohortClosed map[int]bool
}

// NewLayout builds a fresh layout-node tree shadowing the given
// definition tree, with every counter at zero.
func NewLayout(root *GroupDef) *LayoutNode {
	return buildLayout(root, nil)
}

func buildLayout(n Node, parent *LayoutNode) *LayoutNode {
	ln := &LayoutNode{Def: n, Parent: parent, cohortClosed: make(map[int]bool)}
	if g, ok := n.(*GroupDef); ok {
		for _, c := range g.Children {
			ln.Children = append(ln.Children, buildLayout(c, ln))
		}
	}
	return ln
}

func cohortsOf(children []*LayoutNode) [][]*LayoutNode {
	var orders []int
	groups := make(map[int][]*LayoutNode)
	for _, c := range children {
		o := NodeOrder(c.Def)
		if _, ok := groups[o]; !ok {
			orders = append(orders, o)
		}
		groups[o] = append(groups[o], c)
	}
	sort.Ints(orders)
	out := make([][]*LayoutNode, 0, len(orders))
	for _, o := range orders {
		out = append(out, groups[o])
	}
	return out
}

func cohortSatisfied(cohort []*LayoutNode) bool {
	for _, c := range cohort {
		min, _ := NodeOccurs(c.Def)
		if c.Current < min {
			return false
		}
	}
	return true
}

func memberOf(n *LayoutNode, cohort []*LayoutNode) bool {
	for _, c := range cohort {
		if c == n {
			return true
		}
	}
	return false
}

// tieBreakOrder orders a cohort so identifier-bearing record siblings
// are tried before anonymous ones; both groups preserve declaration
// order.
func tieBreakOrder(cohort []*LayoutNode) []*LayoutNode {
	var withID, rest []*LayoutNode
	for _, c := range cohort {
		if rd, ok := c.Def.(*RecordDef); ok && rd.HasIdentifiers() {
			withID = append(withID, c)
		} else {
			rest = append(rest, c)
		}
	}
	return append(withID, rest...)
}

// enterChild attempts to admit tokens into child, returning the leaf
// record layout node reached on success.
func enterChild(child *LayoutNode, tokens []string) (leaf *LayoutNode, matched bool, err error) {
	switch d := child.Def.(type) {
	case *RecordDef:
		if !d.Matches(tokens) {
			return nil, false, nil
		}
		if d.MaxOccurs != Unbounded && child.Current >= d.MaxOccurs {
			// Matches textually but has already saturated its
			// cardinality: not an available match here. MatchAny will
			// still find it, yielding an "unexpected" fault.
			return nil, false, nil
		}
		child.Current++
		return child, true, nil
	case *GroupDef:
		leaf, err = child.matchNext(tokens, true)
		if err != nil {
			return nil, false, err
		}
		if leaf != nil {
			return leaf, true, nil
		}
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("mapping: unknown node type %T", d)
	}
}

// resetIteration clears this group's own progress and every
// descendant's counters, allowing a repeating group to start a fresh
// iteration once every cohort in the current iteration is satisfied.
func (ln *LayoutNode) resetIteration() {
	ln.started = false
	ln.inProgress = nil
	ln.cohortClosed = make(map[int]bool)
	for _, c := range ln.Children {
		c.Current = 0
		c.resetIteration()
	}
}

// MatchNext walks children in order-cohort order, returning the record
// layout node the next input record belongs to, or nil if nothing in
// this subtree matches.
func (ln *LayoutNode) MatchNext(tokens []string) (*LayoutNode, error) {
	return ln.matchNext(tokens, true)
}

func (ln *LayoutNode) matchNext(tokens []string, allowReset bool) (*LayoutNode, error) {
	g, ok := ln.Def.(*GroupDef)
	if !ok {
		return nil, fmt.Errorf("mapping: matchNext invoked on non-group node %q", NodeName(ln.Def))
	}

	for _, cohort := range cohortsOf(ln.Children) {
		order := NodeOrder(cohort[0].Def)
		if ln.cohortClosed[order] {
			continue
		}

		if ln.inProgress != nil && memberOf(ln.inProgress, cohort) {
			leaf, matched, err := enterChild(ln.inProgress, tokens)
			if err != nil {
				return nil, err
			}
			if matched {
				return leaf, nil
			}
			min, _ := NodeOccurs(ln.inProgress.Def)
			if ln.inProgress.Current < min {
				name := NodeName(ln.inProgress.Def)
				return nil, errorsx.NewRecordError(name, errorsx.RuleSequence, 0, "", "expected", name)
			}
			ln.inProgress = nil
		}

		for _, child := range tieBreakOrder(cohort) {
			if child == ln.inProgress {
				continue
			}
			leaf, matched, err := enterChild(child, tokens)
			if err != nil {
				return nil, err
			}
			if matched {
				if !ln.started {
					ln.started = true
					ln.Current++
				}
				ln.inProgress = child
				return leaf, nil
			}
		}

		if cohortSatisfied(cohort) {
			ln.cohortClosed[order] = true
			ln.inProgress = nil
			continue
		}
		return nil, nil
	}

	// Every cohort in the current iteration is satisfied: a repeating
	// group may start a fresh iteration if it has not reached its max.
	if allowReset && (g.MaxOccurs == Unbounded || ln.Current < g.MaxOccurs) {
		ln.resetIteration()
		return ln.matchNext(tokens, false)
	}
	return nil, nil
}

// MatchAny performs an exhaustive, unordered search over every record
// node in the subtree, ignoring cardinality and order. It classifies a
// non-matching record as "unexpected" (identifiable elsewhere but
// saturated) versus "unidentified" (matches nothing in the tree).
func (ln *LayoutNode) MatchAny(tokens []string) *LayoutNode {
	if rd, ok := ln.Def.(*RecordDef); ok {
		if rd.Matches(tokens) {
			return ln
		}
		return nil
	}
	for _, c := range ln.Children {
		if found := c.MatchAny(tokens); found != nil {
			return found
		}
	}
	return nil
}

// Close performs a depth-first post-order walk, returning the first
// node whose current occurrence count is below its configured minimum,
// or nil if every node in the subtree is satisfied.
func (ln *LayoutNode) Close() *LayoutNode {
	for _, c := range ln.Children {
		if found := c.Close(); found != nil {
			return found
		}
	}
	min, _ := NodeOccurs(ln.Def)
	if ln.Current < min {
		return ln
	}
	return nil
}
