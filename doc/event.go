package doc

// MaxEffects is the number of effect columns a single row event carries,
// matching 0CC-FamiTracker's per-row effect column count
// (original_source/src/doc/effect_names.h).
const MaxEffects = 4

// Effect is a two-character effect name plus its byte parameter, e.g. "0A"
// with a value of 0x04 for an arpeggio effect.
type Effect struct {
	Name  [2]byte
	Value byte
}

// IsEmpty reports whether the effect slot carries no effect.
func (e Effect) IsEmpty() bool {
	return e.Name == [2]byte{}
}

// RowEvent is the mutable content anchored at one point in a pattern: an
// optional note, optional instrument switch, optional volume, and a small
// fixed array of effects. The zero value is the "empty" row event and
// compares equal to any other unset RowEvent.
type RowEvent struct {
	Note       *Note
	Instrument *int
	Volume     *int
	Effects    [MaxEffects]Effect
}

// IsEmpty reports whether every field of the event is unset, used by edit
// commands to prune dead event slots after clearing a subcolumn
// (edit/pattern.cpp's erase_empty).
func (e RowEvent) IsEmpty() bool {
	if e.Note != nil || e.Instrument != nil || e.Volume != nil {
		return false
	}
	for _, fx := range e.Effects {
		if !fx.IsEmpty() {
			return false
		}
	}
	return true
}

// Equal reports value equality (not pointer identity) between two RowEvents.
func (e RowEvent) Equal(o RowEvent) bool {
	if !notePtrEqual(e.Note, o.Note) {
		return false
	}
	if !intPtrEqual(e.Instrument, o.Instrument) {
		return false
	}
	if !intPtrEqual(e.Volume, o.Volume) {
		return false
	}
	return e.Effects == o.Effects
}

func notePtrEqual(a, b *Note) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Clone returns a deep copy of e; pointer fields are duplicated rather than
// shared, so mutating the clone never affects the original.
func (e RowEvent) Clone() RowEvent {
	out := e
	if e.Note != nil {
		n := *e.Note
		out.Note = &n
	}
	if e.Instrument != nil {
		i := *e.Instrument
		out.Instrument = &i
	}
	if e.Volume != nil {
		v := *e.Volume
		out.Volume = &v
	}
	return out
}
