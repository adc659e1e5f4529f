package tidy

import (
	"sync"
)

// SexpSymbol is an interned name. Two symbols with the same
// name carry the same number, and MakeSymbol hands back the
// same pointer each time, so identity is equality.
type SexpSymbol struct {
	name   string
	number int
}

func (sym *SexpSymbol) SexpString(ps *PrintState) string {
	return sym.name
}

func (sym *SexpSymbol) Name() string {
	return sym.name
}

func (sym *SexpSymbol) Number() int {
	return sym.number
}

type symbolTable struct {
	mut        sync.Mutex
	byName     map[string]*SexpSymbol
	byNumber   map[int]*SexpSymbol
	nextsymbol int
}

var symtable = &symbolTable{
	byName:     make(map[string]*SexpSymbol),
	byNumber:   make(map[int]*SexpSymbol),
	nextsymbol: 1,
}

// MakeSymbol interns name.
func MakeSymbol(name string) *SexpSymbol {
	symtable.mut.Lock()
	defer symtable.mut.Unlock()
	sym, ok := symtable.byName[name]
	if ok {
		return sym
	}
	sym = &SexpSymbol{name: name, number: symtable.nextsymbol}
	symtable.byName[name] = sym
	symtable.byNumber[sym.number] = sym
	symtable.nextsymbol++
	return sym
}

func symbolByNumber(number int) *SexpSymbol {
	symtable.mut.Lock()
	defer symtable.mut.Unlock()
	return symtable.byNumber[number]
}

// names the framework installs
var (
	symTilde  = MakeSymbol("~")
	symData   = MakeSymbol(".data")
	symEnv    = MakeSymbol(".env")
	symTopEnv = MakeSymbol(".top_env")
	symQuote  = MakeSymbol("quote")
	symDollar = MakeSymbol("$")
	symSquare = MakeSymbol("[")
)
