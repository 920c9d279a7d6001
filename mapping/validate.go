package mapping

import (
	"github.com/tommysiu/beanio/errorsx"
)

// Validate checks every mapping-loader constraint:
//
//   - every record has a unique name within its parent group;
//   - every field's position is non-negative and unique within its
//     record; collection fields occupy [position, position+maxOccurs)
//     and must not overlap a fixed sibling;
//   - minOccurs <= maxOccurs (except maxOccurs = Unbounded);
//   - at least one record-identifier field per record, unless the
//     record is the sole child in its cohort.
func Validate(root *GroupDef) []error {
	var errs []error
	validateGroup(root, &errs)
	return errs
}

func validateGroup(g *GroupDef, errs *[]error) {
	if g.MaxOccurs != Unbounded && g.MinOccurs > g.MaxOccurs {
		*errs = append(*errs, errorsx.NewConfigError("mapping: minOccurs exceeds maxOccurs", "group", g.Name, "minOccurs", g.MinOccurs, "maxOccurs", g.MaxOccurs))
	}

	seenNames := make(map[string]bool)
	for _, child := range g.Children {
		name := NodeName(child)
		if seenNames[name] {
			*errs = append(*errs, errorsx.NewConfigError("mapping: duplicate child name in group", "group", g.Name, "child", name))
		}
		seenNames[name] = true
	}

	// Identifier-or-sole-cohort-child rule, evaluated directly over the
	// configured children (no layout counters needed for this static
	// check).
	for _, cohort := range cohortGroups(g.Children) {
		for _, child := range cohort {
			rd, ok := child.(*RecordDef)
			if !ok {
				continue
			}
			if rd.HasIdentifiers() {
				continue
			}
			if len(cohort) == 1 {
				continue // sole child in its cohort
			}
			*errs = append(*errs, errorsx.NewConfigError("mapping: record has no identifier field and is not the sole child in its cohort", "group", g.Name, "record", rd.Name))
		}
	}

	for _, child := range g.Children {
		switch v := child.(type) {
		case *GroupDef:
			validateGroup(v, errs)
		case *RecordDef:
			validateRecord(v, errs)
		}
	}
}

func cohortGroups(children []Node) [][]Node {
	var orders []int
	groups := make(map[int][]Node)
	for _, c := range children {
		o := NodeOrder(c)
		if _, ok := groups[o]; !ok {
			orders = append(orders, o)
		}
		groups[o] = append(groups[o], c)
	}
	out := make([][]Node, 0, len(groups))
	for _, o := range orders {
		out = append(out, groups[o])
	}
	return out
}

func validateRecord(rd *RecordDef, errs *[]error) {
	if rd.MaxOccurs != Unbounded && rd.MinOccurs > rd.MaxOccurs {
		*errs = append(*errs, errorsx.NewConfigError("mapping: minOccurs exceeds maxOccurs", "record", rd.Name, "minOccurs", rd.MinOccurs, "maxOccurs", rd.MaxOccurs))
	}

	type span struct {
		name       string
		start, end int // end is exclusive; Unbounded collections span to +inf and are not overlap-checked
		unbounded  bool
	}
	var spans []span
	seenFieldNames := make(map[string]bool)

	for _, f := range rd.Fields {
		if seenFieldNames[f.Name] {
			*errs = append(*errs, errorsx.NewConfigError("mapping: duplicate field name in record", "record", rd.Name, "field", f.Name))
		}
		seenFieldNames[f.Name] = true

		if f.Position < 0 {
			*errs = append(*errs, errorsx.NewConfigError("mapping: field position must be non-negative", "record", rd.Name, "field", f.Name, "position", f.Position))
			continue
		}
		if f.MinOccurs > f.MaxOccurs && f.MaxOccurs != Unbounded && f.Collection != CollectionNone {
			*errs = append(*errs, errorsx.NewConfigError("mapping: field minOccurs exceeds maxOccurs", "record", rd.Name, "field", f.Name))
		}

		s := span{name: f.Name, start: f.Position}
		if f.Collection == CollectionNone {
			s.end = f.Position + 1
		} else if f.MaxOccurs == Unbounded {
			s.unbounded = true
		} else {
			s.end = f.Position + f.MaxOccurs
		}
		spans = append(spans, s)
	}

	for i := 0; i < len(spans); i++ {
		for j := i + 1; j < len(spans); j++ {
			a, b := spans[i], spans[j]
			if a.unbounded || b.unbounded {
				continue // an unbounded collection is expected to be the last field; this pair is not checked
			}
			if a.start < b.end && b.start < a.end {
				*errs = append(*errs, errorsx.NewConfigError("mapping: field positions overlap", "record", rd.Name, "fieldA", a.name, "fieldB", b.name))
			}
		}
	}
}
