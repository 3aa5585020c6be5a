package edit

import "github.com/nyanpasu64/exotracker/doc"

// UndoFrame is one entry on the undo/redo stack. It holds the Command that
// was applied, not a GUI cursor — cursor restoration is a GUI-thread concern
// out of this module's scope (see DESIGN.md).
type UndoFrame struct {
	Edit Command
}

// History is a two-stack undo/redo log over a single document, grounded on
// original_source/tests/test_edit_history.cpp's gui::history::History.
// Pushing a new edit clears the redo stack; adjacent edits are never merged
// (test_edit_history.cpp's test_pattern_edits exercises exactly this: two
// edits to the same subcolumn remain two separate undo steps).
type History struct {
	document *doc.Document
	undo     []UndoFrame
	redo     []UndoFrame
}

// NewHistory returns a History tracking document. document is mutated in
// place by Push, TryUndo and TryRedo.
func NewHistory(document *doc.Document) *History {
	return &History{document: document}
}

// GetDocument returns the document this History is tracking.
func (h *History) GetDocument() *doc.Document {
	return h.document
}

// Push applies frame.Edit to the document and records it as the most recent
// undo step, discarding any redo history.
func (h *History) Push(frame UndoFrame) {
	frame.Edit.ApplySwap(h.document)
	h.undo = append(h.undo, frame)
	h.redo = nil
}

// CanUndo reports whether TryUndo would succeed.
func (h *History) CanUndo() bool {
	return len(h.undo) > 0
}

// CanRedo reports whether TryRedo would succeed.
func (h *History) CanRedo() bool {
	return len(h.redo) > 0
}

// TryUndo reverts the most recent undone-capable edit, moving it to the redo
// stack. It reports whether there was anything to undo.
func (h *History) TryUndo() bool {
	if !h.CanUndo() {
		return false
	}
	last := len(h.undo) - 1
	frame := h.undo[last]
	h.undo = h.undo[:last]

	frame.Edit.ApplySwap(h.document)
	h.redo = append(h.redo, frame)
	return true
}

// TryRedo reapplies the most recently undone edit, moving it back to the
// undo stack. It reports whether there was anything to redo.
func (h *History) TryRedo() bool {
	if !h.CanRedo() {
		return false
	}
	last := len(h.redo) - 1
	frame := h.redo[last]
	h.redo = h.redo[:last]

	frame.Edit.ApplySwap(h.document)
	h.undo = append(h.undo, frame)
	return true
}
