// Package history provides snapshot-based undo/redo for documents.
//
// # History
//
// A History is a list of document snapshots and a current index:
//
//	h := history.New(initial, 50)
//	h.Push(edited)
//	prev, err := h.Undo() // back to initial
//	next, err := h.Redo() // forward to edited
//
// Pushing after an undo discards the redo entries. When the list is full the
// oldest snapshot is dropped.
//
// # Recorder
//
// A Recorder coalesces a burst of edits into one snapshot. Every organic
// change is passed to Observe; the snapshot is pushed once no change has
// arrived for the debounce delay:
//
//	rec := history.NewRecorder(h, 500*time.Millisecond)
//	rec.Observe(value) // per keystroke
//
// Values installed by undo or redo must not re-enter the pipeline. Call
// SuppressNext before handing such a value to Observe and it is ignored
// once.
package history
