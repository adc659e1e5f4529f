package tidy

// PrintState threads indentation and a seen-set through
// SexpString, so that printing a frame graph with cycles
// (a closure stored in the frame it closes over) terminates.
type PrintState struct {
	Indent int
	Seen   Seen
}

type Seen map[interface{}]struct{}

func NewSeen() Seen {
	return make(Seen)
}

func NewPrintState() *PrintState {
	return &PrintState{
		Seen: NewSeen(),
	}
}

func (ps *PrintState) SetSeen(x interface{}, name string) {
	if ps == nil {
		panic("can't SetSeen on a nil PrintState")
	}
	ps.Seen[x] = struct{}{}
}

func (ps *PrintState) GetSeen(x interface{}) bool {
	if ps == nil {
		return false
	}
	_, ok := ps.Seen[x]
	return ok
}

func (ps *PrintState) GetIndent() int {
	if ps == nil {
		return 0
	}
	return ps.Indent
}

func (ps *PrintState) AddIndent(addme int) *PrintState {
	if ps == nil {
		return &PrintState{
			Indent: addme,
			Seen:   NewSeen(),
		}
	}
	return &PrintState{
		Indent: ps.Indent + addme,
		Seen:   ps.Seen,
	}
}
