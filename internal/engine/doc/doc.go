// Package doc defines the rich-text document model.
//
// A document is a Value: an ordered list of paragraph Blocks, each holding a
// run of TextNodes. Every node carries an optional Marks set describing its
// formatting. The model is canonical when no two adjacent nodes in a block
// share an equal mark set; Normalize restores that property.
//
// # Positions
//
// Text is measured in runes. When a position is expressed as a single
// absolute offset, consecutive blocks are separated by one virtual
// character, so a two-block document "ab" / "cd" has absolute length 5.
//
// # Immutability
//
// Values, blocks and mark sets are never modified in place once handed out.
// Editing functions build new slices and maps and share untouched parts with
// their input, so callers can detect a change by comparing references.
//
// # Marks
//
// A mark key has three states: unset (absent from the map), explicitly
// cleared (Inherit), or a concrete value (bool, number or string):
//
//	m := doc.Marks{doc.Bold: doc.Bool(true), doc.FontSize: doc.Inherit()}
//	m.Bool(doc.Bold)          // true
//	m.Get(doc.FontSize)       // Inherit, present
//	_, ok := m.Get(doc.Color) // ok == false
package doc
