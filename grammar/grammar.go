package grammar

import "fmt"

// Builder collects productions and classifies their symbols
// structurally: every name that appears on a left-hand side is a
// non-terminal, every other name is a terminal. The left-hand side of
// the first production becomes the start symbol.
type Builder struct {
	lhsNames []string
	rhsNames [][]string
	err      error
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Add declares a production. Pass the empty-production marker "ε" as
// the sole right-hand side name to declare an empty production.
func (b *Builder) Add(lhs string, rhs ...string) *Builder {
	if b.err != nil {
		return b
	}
	if lhs == "" {
		b.err = fmt.Errorf("a production needs a non-empty LHS name")
		return b
	}
	if lhs == symbolNameEOF || lhs == symbolNameEmpty {
		b.err = fmt.Errorf("%#v is a reserved name and cannot appear in a LHS", lhs)
		return b
	}
	for _, name := range rhs {
		if name == "" {
			b.err = fmt.Errorf("a production %v contains an empty RHS name", lhs)
			return b
		}
		if name == symbolNameEOF {
			b.err = fmt.Errorf("the end marker cannot appear in a RHS; production: %v", lhs)
			return b
		}
		if name == symbolNameEmpty && len(rhs) != 1 {
			b.err = fmt.Errorf("the empty-production marker must be the sole RHS entry; production: %v", lhs)
			return b
		}
	}
	b.lhsNames = append(b.lhsNames, lhs)
	b.rhsNames = append(b.rhsNames, rhs)
	return b
}

func (b *Builder) Build() (*Grammar, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.lhsNames) == 0 {
		return nil, fmt.Errorf("a grammar needs at least one production")
	}

	lhsSet := map[string]struct{}{}
	for _, lhs := range b.lhsNames {
		lhsSet[lhs] = struct{}{}
	}

	sTab := newSymbolTable()
	w := sTab.writer()
	startText := b.lhsNames[0]
	augStartText := startText + "'"
	if _, ok := lhsSet[augStartText]; ok {
		return nil, fmt.Errorf("the name %v collides with the augmented start symbol", augStartText)
	}
	startSym, err := w.registerStartSymbol(augStartText)
	if err != nil {
		return nil, err
	}
	for _, lhs := range b.lhsNames {
		if _, err := w.registerNonTerminalSymbol(lhs); err != nil {
			return nil, err
		}
	}

	prods := newProductionSet()
	r := sTab.reader()
	for i, lhs := range b.lhsNames {
		lhsSym, _ := r.toSymbol(lhs)
		var rhsSyms []symbol
		for _, name := range b.rhsNames[i] {
			if name == symbolNameEmpty {
				continue
			}
			var sym symbol
			if _, ok := lhsSet[name]; ok {
				sym, _ = r.toSymbol(name)
			} else {
				sym, err = w.registerTerminalSymbol(name)
				if err != nil {
					return nil, err
				}
			}
			rhsSyms = append(rhsSyms, sym)
		}
		prod, err := newProduction(lhsSym, rhsSyms)
		if err != nil {
			return nil, err
		}
		if !prods.append(prod) {
			return nil, fmt.Errorf("duplicate production; LHS: %v, RHS: %v", lhs, b.rhsNames[i])
		}
	}

	origStartSym, _ := r.toSymbol(startText)
	return &Grammar{
		symbolTable:   sTab,
		productionSet: prods,
		startText:     startText,
		startSym:      origStartSym,
		augStartSym:   startSym,
	}, nil
}

// Grammar is an immutable set of productions over classified symbols.
// Analyses never mutate it; Augment derives a new value.
type Grammar struct {
	symbolTable   *symbolTable
	productionSet *productionSet
	startText     string
	startSym      symbol
	augStartSym   symbol
	augmented     bool
}

// Augment derives a grammar whose production set has a synthetic start
// production S' → S prepended before all declared productions. The
// receiver is left unchanged.
func Augment(g *Grammar) (*Grammar, error) {
	if g.augmented {
		return nil, fmt.Errorf("the grammar is already augmented")
	}
	prods := newProductionSet()
	startProd, err := newProduction(g.augStartSym, []symbol{g.startSym})
	if err != nil {
		return nil, err
	}
	prods.append(startProd)
	for _, prod := range g.productionSet.getAllProductions() {
		// append assigns numbers, so give it a copy to keep the
		// receiver's productions untouched.
		p := *prod
		prods.append(&p)
	}
	return &Grammar{
		symbolTable:   g.symbolTable,
		productionSet: prods,
		startText:     g.startText,
		startSym:      g.startSym,
		augStartSym:   g.augStartSym,
		augmented:     true,
	}, nil
}

func (g *Grammar) StartText() string {
	return g.startText
}

// TerminalTexts returns the terminal spellings indexed by terminal
// number. Index 0 is unused and index 1 is the end marker.
func (g *Grammar) TerminalTexts() []string {
	texts, _ := g.symbolTable.reader().terminalTexts()
	return texts
}

// NonTerminalTexts returns the non-terminal names indexed by
// non-terminal number. Index 0 is unused and index 1 is the augmented
// start symbol.
func (g *Grammar) NonTerminalTexts() []string {
	texts, _ := g.symbolTable.reader().nonTerminalTexts()
	return texts
}

func (g *Grammar) TerminalNum(text string) (int, bool) {
	sym, ok := g.symbolTable.reader().toSymbol(text)
	if !ok || !sym.isTerminal() {
		return 0, false
	}
	return sym.num().Int(), true
}

func (g *Grammar) NonTerminalNum(text string) (int, bool) {
	sym, ok := g.symbolTable.reader().toSymbol(text)
	if !ok || !sym.isNonTerminal() {
		return 0, false
	}
	return sym.num().Int(), true
}

// EOFTerm returns the terminal number of the end marker.
func (g *Grammar) EOFTerm() int {
	return symbolEOF.num().Int()
}

func (g *Grammar) ProductionCount() int {
	return g.productionSet.count()
}

// ProductionInfo reports the LHS name, the LHS non-terminal number,
// and the RHS length of the production numbered num.
func (g *Grammar) ProductionInfo(num int) (string, int, int, bool) {
	prod, ok := g.productionSet.findByNum(productionNum(num))
	if !ok {
		return "", 0, 0, false
	}
	text, _ := g.symbolTable.reader().toText(prod.lhs)
	return text, prod.lhs.num().Int(), prod.rhsLen, true
}
