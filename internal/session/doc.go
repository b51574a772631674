// Package session holds the live state of one editor: the document, the
// selection, the undo history and the pending selection restore.
//
// A Session is driven by a Host, the editing surface that owns the caret and
// renders the document. The host reports its selection as absolute offsets
// and receives every new document through OnChange. Formatting goes through
// the plugin registry, so a session has no mark-specific code:
//
//	s := session.New(host)
//	defer s.Close()
//
//	s.SetSelection(0, 5)
//	s.ApplyFormat(doc.Bold, doc.Bool(true))
//	html := s.HTML(false)
//
// Edits are recorded in the history after a quiet period. Undo and Redo
// restore snapshots without feeding them back into the history.
//
// All methods are safe for concurrent use. Host callbacks and observers run
// without the session's lock held, so they may call back into the session.
package session
