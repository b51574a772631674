// Package marks implements the range and mark algebra over rich-text
// documents.
//
// Every function here is pure: it takes a document (or one block's content)
// plus a range and returns a new, normalized result without touching its
// input. Ranges are expressed in block coordinates (Range); use
// BlockPosition or RangeFromAbsolute to convert from absolute offsets.
//
// When a node straddles a range boundary it is split into up to three
// fragments. The head and tail keep the node's original mark set (the very
// same map), and only the covered middle receives the change.
package marks
