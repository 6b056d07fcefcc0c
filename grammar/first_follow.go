package grammar

import (
	"fmt"
	"sort"
)

// FirstFollow holds the FIRST and FOLLOW sets of a grammar's
// non-terminals. Both are computed once and never change afterwards,
// so a value can be shared and persisted freely.
type FirstFollow struct {
	g      *Grammar
	first  *firstSet
	follow *followSet
}

func GenFirstFollow(g *Grammar) (*FirstFollow, error) {
	if g.augmented {
		return nil, fmt.Errorf("FIRST and FOLLOW are computed on the declared grammar, not an augmented one")
	}
	fst, err := genFirstSet(g.productionSet)
	if err != nil {
		return nil, err
	}
	flw, err := genFollowSet(g.productionSet, fst, g.startSym)
	if err != nil {
		return nil, err
	}
	return &FirstFollow{
		g:      g,
		first:  fst,
		follow: flw,
	}, nil
}

// First reports FIRST of a non-terminal: its terminal spellings in
// ascending text order and whether the set contains the
// empty-production marker.
func (ff *FirstFollow) First(nonTerm string) ([]string, bool, error) {
	sym, ok := ff.g.symbolTable.reader().toSymbol(nonTerm)
	if !ok || !sym.isNonTerminal() {
		return nil, false, fmt.Errorf("%v is not a non-terminal of the grammar", nonTerm)
	}
	e := ff.first.findBySymbol(sym)
	if e == nil {
		return nil, false, fmt.Errorf("an entry of FIRST was not found; symbol: %v", nonTerm)
	}
	return ff.texts(e.symbols), e.empty, nil
}

// Follow reports FOLLOW of a non-terminal: its terminal spellings in
// ascending text order and whether the set contains the end marker.
func (ff *FirstFollow) Follow(nonTerm string) ([]string, bool, error) {
	sym, ok := ff.g.symbolTable.reader().toSymbol(nonTerm)
	if !ok || !sym.isNonTerminal() {
		return nil, false, fmt.Errorf("%v is not a non-terminal of the grammar", nonTerm)
	}
	e, err := ff.follow.find(sym)
	if err != nil {
		return nil, false, err
	}
	return ff.texts(e.symbols), e.eof, nil
}

func (ff *FirstFollow) texts(syms map[symbol]struct{}) []string {
	r := ff.g.symbolTable.reader()
	texts := make([]string, 0, len(syms))
	for sym := range syms {
		text, ok := r.toText(sym)
		if !ok {
			continue
		}
		texts = append(texts, text)
	}
	sort.Strings(texts)
	return texts
}
