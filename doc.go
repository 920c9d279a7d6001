// Package beanio binds flat textual records - fixed-length, delimited,
// or generically token-delimited - to in-memory beans, using a
// declarative mapping tree of groups and records (see package mapping)
// and a pluggable external format collaborator (see package formats)
// for the physical line framing.
//
// A Reader walks the mapping tree's layout state machine one physical
// record at a time, classifying mismatches as unidentified or
// unexpected and surfacing field-validation faults grouped per record.
// A Writer does the inverse: given a bean, it finds the unique
// matching RecordDef and formats it back to text.
//
// Both drivers are built once, from a loaded and validated mapping
// tree, and are not safe for concurrent use by multiple goroutines
// (a Reader's layout-tree occurrence counters change on every Read
// call, and each driver wraps a stateful format collaborator). The
// mapping tree itself and the handler registry are read-only once
// construction finishes and may be shared across readers/writers;
// each driver needs its own format collaborator.
package beanio
