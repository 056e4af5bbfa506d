// Package intern implements an append-only, arena-backed string store.
// Strings appended to an Interner receive a stable Ref that can be
// resolved back to the original bytes for the lifetime of the Interner.
//
// Equal inputs are not deduplicated, so a Ref identifies a position, not a
// text: two Refs holding equal text are in general different Ref values.
// Compare interned strings by their text (String or Bytes), not by Ref.
package intern

// Ref is a stable reference to a string owned by an Interner. The zero
// Ref refers to the empty string of an Interner with no entries appended;
// Refs from different Interners must not be mixed.
type Ref struct {
	start, end int
}

// Interner is an append-only arena of bytes. It is not safe for concurrent
// use; the core (tokenizer/parser/Repository) runs single-threaded during a
// parse, per the concurrency model.
type Interner struct {
	arena []byte
}

// New returns an empty Interner.
func New() *Interner {
	return &Interner{}
}

// EnsureCapacity hints that at least n additional bytes will be appended,
// avoiding incremental reallocation during bulk ingestion.
func (in *Interner) EnsureCapacity(n int) {
	if cap(in.arena)-len(in.arena) >= n {
		return
	}
	grown := make([]byte, len(in.arena), len(in.arena)+n)
	copy(grown, in.arena)
	in.arena = grown
}

// Append copies s into the arena and returns a stable Ref to it. Equal
// inputs are not deduplicated; each call appends a fresh copy.
func (in *Interner) Append(s string) Ref {
	start := len(in.arena)
	in.arena = append(in.arena, s...)
	return Ref{start: start, end: start + len(s)}
}

// Bytes resolves ref against this Interner's arena. The returned slice
// aliases the arena and must not be mutated or retained past the
// Interner's lifetime.
func (in *Interner) Bytes(ref Ref) []byte {
	return in.arena[ref.start:ref.end]
}

// String resolves ref to a copy of its text.
func (in *Interner) String(ref Ref) string {
	return string(in.Bytes(ref))
}

// Len reports the number of bytes currently held in the arena.
func (in *Interner) Len() int {
	return len(in.arena)
}

// ClaimOther appends all bytes owned by other to in's arena and returns the
// offset (base) at which they start. A Ref produced against other resolves
// against in only after translation with Rebase(ref, base). other is
// emptied; its Refs must not be resolved against it again.
func (in *Interner) ClaimOther(other *Interner) (base int) {
	base = len(in.arena)
	in.arena = append(in.arena, other.arena...)
	other.arena = nil
	return base
}

// Rebase translates a Ref produced against the Interner that was just
// absorbed via ClaimOther (using the base offset ClaimOther returned) into
// a Ref valid against this Interner.
func Rebase(ref Ref, base int) Ref {
	return Ref{start: ref.start + base, end: ref.end + base}
}
