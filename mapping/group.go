package mapping

// Node is the tagged-variant interface shared by group and record
// definitions: a tagged variant rather than an inheritance hierarchy,
// since both share the same cardinality-counter fields. Only
// *GroupDef and *RecordDef implement it.
type Node interface {
	isMappingNode()
}

// GroupDef is a named, ordered tree of child groups and records,
// carrying the configured order/min/max occurrence bounds.
type GroupDef struct {
	Name      string
	Order     int
	MinOccurs int
	MaxOccurs int // Unbounded for no cap
	Children  []Node

	// Properties holds stream-level metadata (locale, charset, and the
	// like) declared on the mapping root. It is opaque to the core
	// engine and exists only so a loader can round-trip it; only the
	// root GroupDef of a loaded tree ever has this populated.
	Properties map[string]string
}

func (g *GroupDef) isMappingNode() {}

// NodeName returns a node's configured name regardless of its kind.
func NodeName(n Node) string {
	switch v := n.(type) {
	case *GroupDef:
		return v.Name
	case *RecordDef:
		return v.Name
	default:
		return ""
	}
}

// NodeOccurs returns a node's configured (min, max) occurrence bounds.
func NodeOccurs(n Node) (min, max int) {
	switch v := n.(type) {
	case *GroupDef:
		return v.MinOccurs, v.MaxOccurs
	case *RecordDef:
		return v.MinOccurs, v.MaxOccurs
	default:
		return 0, 0
	}
}

// NodeOrder returns a node's configured sibling order index.
func NodeOrder(n Node) int {
	switch v := n.(type) {
	case *GroupDef:
		return v.Order
	case *RecordDef:
		return v.Order
	default:
		return 0
	}
}
