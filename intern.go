package stentorian

// interner assigns dense 1-based integer ids to repeated strings in
// first-appearance order; duplicate strings share an id. Grounded on
// the original source's grammarcompiler/intern.rs, one interner is
// used for words and a second, independent one for lists (§2, §4.1).
type interner struct {
	idOf  map[string]uint32
	names []idName
}

type idName struct {
	ID   uint32
	Name string
}

func newInterner() *interner {
	return &interner{idOf: make(map[string]uint32)}
}

// intern returns s's id, assigning a fresh one on first sight.
func (in *interner) intern(s string) uint32 {
	if id, ok := in.idOf[s]; ok {
		return id
	}
	id := uint32(len(in.names) + 1)
	in.idOf[s] = id
	in.names = append(in.names, idName{ID: id, Name: s})
	return id
}

// done returns the (id, name) pairs in first-appearance order.
func (in *interner) done() []idName {
	return in.names
}
