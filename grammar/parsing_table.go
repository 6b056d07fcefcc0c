package grammar

import (
	"fmt"
	"sort"
)

type ActionType string

const (
	ActionTypeShift  = ActionType("shift")
	ActionTypeReduce = ActionType("reduce")
	ActionTypeAccept = ActionType("accept")
	ActionTypeError  = ActionType("error")
)

type actionEntry int

const (
	actionEntryEmpty  = actionEntry(0)
	actionEntryAccept = actionEntry(1 << 30)
)

func newShiftActionEntry(state stateNum) actionEntry {
	return actionEntry(state * -1)
}

// Reduce entries are stored as the production number plus one so that
// the reduction of production 0 stays distinct from an empty cell.
func newReduceActionEntry(prod productionNum) actionEntry {
	return actionEntry(prod + 1)
}

func (e actionEntry) isEmpty() bool {
	return e == actionEntryEmpty
}

func (e actionEntry) describe() (ActionType, stateNum, productionNum) {
	if e == actionEntryEmpty {
		return ActionTypeError, stateNumInitial, productionNumNil
	}
	if e == actionEntryAccept {
		return ActionTypeAccept, stateNumInitial, productionNumNil
	}
	if e < 0 {
		return ActionTypeShift, stateNum(e * -1), productionNumNil
	}
	return ActionTypeReduce, stateNumInitial, productionNum(e - 1)
}

type GoToType string

const (
	GoToTypeRegistered = GoToType("registered")
	GoToTypeError      = GoToType("error")
)

type goToEntry uint

const goToEntryEmpty = goToEntry(0)

func newGoToEntry(state stateNum) goToEntry {
	return goToEntry(state)
}

func (e goToEntry) isEmpty() bool {
	return e == goToEntryEmpty
}

func (e goToEntry) describe() (GoToType, stateNum) {
	if e == goToEntryEmpty {
		return GoToTypeError, stateNumInitial
	}
	return GoToTypeRegistered, stateNum(e)
}

type Conflict interface {
	fmt.Stringer
	conflict()
}

// ShiftReduceConflict records a cell where a shift and a reduce
// competed. The shift is always the adopted action.
type ShiftReduceConflict struct {
	State     int
	Terminal  string
	NextState int
	ProdNum   int
}

func (c *ShiftReduceConflict) String() string {
	return fmt.Sprintf("state %v, terminal %v: shift/reduce conflict (shift %v adopted over reduce %v)", c.State, c.Terminal, c.NextState, c.ProdNum)
}

func (c *ShiftReduceConflict) conflict() {}

// ReduceReduceConflict records a cell where two reductions competed.
// The later-declared production is the adopted action.
type ReduceReduceConflict struct {
	State    int
	Terminal string
	ProdNum1 int
	ProdNum2 int
	Adopted  int
}

func (c *ReduceReduceConflict) String() string {
	return fmt.Sprintf("state %v, terminal %v: reduce/reduce conflict (reduce %v adopted over reduce %v)", c.State, c.Terminal, c.Adopted, c.ProdNum1)
}

func (c *ReduceReduceConflict) conflict() {}

var (
	_ Conflict = &ShiftReduceConflict{}
	_ Conflict = &ReduceReduceConflict{}
)

// ParsingTable is the ACTION and GOTO table of an SLR(1) parser. Both
// tables are stored flat: a cell of ACTION lives at
// state*terminalCount+terminal and a cell of GOTO at
// state*nonTerminalCount+nonTerminal.
type ParsingTable struct {
	actionTable      []actionEntry
	goToTable        []goToEntry
	stateCount       int
	terminalCount    int
	nonTerminalCount int
	initialState     stateNum
	conflicts        []Conflict
}

func (t *ParsingTable) getAction(state stateNum, sym symbolNum) (ActionType, stateNum, productionNum) {
	pos := state.Int()*t.terminalCount + sym.Int()
	return t.actionTable[pos].describe()
}

func (t *ParsingTable) getGoTo(state stateNum, sym symbolNum) (GoToType, stateNum) {
	pos := state.Int()*t.nonTerminalCount + sym.Int()
	return t.goToTable[pos].describe()
}

// Action reports the ACTION cell for a state and a terminal number:
// the action type, the next state of a shift, and the production
// number of a reduce.
func (t *ParsingTable) Action(state int, term int) (ActionType, int, int) {
	ty, next, prod := t.getAction(stateNum(state), symbolNum(term))
	return ty, next.Int(), prod.Int()
}

// GoTo reports the GOTO cell for a state and a non-terminal number.
func (t *ParsingTable) GoTo(state int, nonTerm int) (GoToType, int) {
	ty, next := t.getGoTo(stateNum(state), symbolNum(nonTerm))
	return ty, next.Int()
}

func (t *ParsingTable) StateCount() int {
	return t.stateCount
}

func (t *ParsingTable) InitialState() int {
	return t.initialState.Int()
}

func (t *ParsingTable) HasConflicts() bool {
	return len(t.conflicts) > 0
}

func (t *ParsingTable) Conflicts() []Conflict {
	return t.conflicts
}

type lrTableBuilder struct {
	automaton    *lr0Automaton
	prods        *productionSet
	follow       *followSet
	termTexts    []string
	nonTermCount int
	conflicts    []Conflict
}

func (b *lrTableBuilder) build() (*ParsingTable, error) {
	var ptab *ParsingTable
	{
		initialState := b.automaton.states[b.automaton.initialState]
		termCount := len(b.termTexts)
		nonTermCount := b.nonTermCount
		ptab = &ParsingTable{
			actionTable:      make([]actionEntry, len(b.automaton.states)*termCount),
			goToTable:        make([]goToEntry, len(b.automaton.states)*nonTermCount),
			stateCount:       len(b.automaton.states),
			terminalCount:    termCount,
			nonTerminalCount: nonTermCount,
			initialState:     initialState.num,
		}
	}

	for _, state := range b.automaton.statesByNum() {
		for sym, kID := range state.next {
			nextState := b.automaton.states[kID]
			if sym.isTerminal() {
				b.writeShiftAction(ptab, state.num, sym, nextState.num)
			} else {
				ptab.writeGoTo(state.num, sym, nextState.num)
			}
		}

		for _, prod := range b.reduciblesByNum(state) {
			if prod.lhs.isStart() {
				b.writeAcceptAction(ptab, state.num)
				continue
			}
			flw, err := b.follow.find(prod.lhs)
			if err != nil {
				return nil, err
			}
			for sym := range flw.symbols {
				b.writeReduceAction(ptab, state.num, sym, prod.num)
			}
			if flw.eof {
				b.writeReduceAction(ptab, state.num, symbolEOF, prod.num)
			}
		}
	}

	b.fillDefaultActions(ptab)
	ptab.conflicts = b.conflicts

	return ptab, nil
}

// reduciblesByNum returns the reducible productions of a state ordered
// by production number. When two reductions land on the same cell, the
// later-declared production overwrites the earlier one, so the
// iteration order decides the winner and must be stable.
func (b *lrTableBuilder) reduciblesByNum(state *lr0State) []*production {
	prods := make([]*production, 0, len(state.reducible))
	for prodID := range state.reducible {
		prod, _ := b.prods.findByID(prodID)
		prods = append(prods, prod)
	}
	sort.Slice(prods, func(i, j int) bool {
		return prods[i].num < prods[j].num
	})
	return prods
}

func (b *lrTableBuilder) writeShiftAction(t *ParsingTable, state stateNum, sym symbol, nextState stateNum) {
	pos := state.Int()*t.terminalCount + sym.num().Int()
	act := t.actionTable[pos]
	if !act.isEmpty() {
		ty, _, p := act.describe()
		if ty == ActionTypeReduce {
			b.conflicts = append(b.conflicts, &ShiftReduceConflict{
				State:     state.Int(),
				Terminal:  b.termTexts[sym.num().Int()],
				NextState: nextState.Int(),
				ProdNum:   p.Int(),
			})
		}
	}
	t.actionTable[pos] = newShiftActionEntry(nextState)
}

func (b *lrTableBuilder) writeReduceAction(t *ParsingTable, state stateNum, sym symbol, prod productionNum) {
	pos := state.Int()*t.terminalCount + sym.num().Int()
	act := t.actionTable[pos]
	if act.isEmpty() {
		t.actionTable[pos] = newReduceActionEntry(prod)
		return
	}
	ty, next, p := act.describe()
	switch ty {
	case ActionTypeReduce:
		if p == prod {
			return
		}
		b.conflicts = append(b.conflicts, &ReduceReduceConflict{
			State:    state.Int(),
			Terminal: b.termTexts[sym.num().Int()],
			ProdNum1: p.Int(),
			ProdNum2: prod.Int(),
			Adopted:  prod.Int(),
		})
		t.actionTable[pos] = newReduceActionEntry(prod)
	case ActionTypeShift:
		// A shift is never overwritten by a reduce.
		b.conflicts = append(b.conflicts, &ShiftReduceConflict{
			State:     state.Int(),
			Terminal:  b.termTexts[sym.num().Int()],
			NextState: next.Int(),
			ProdNum:   prod.Int(),
		})
	}
}

func (b *lrTableBuilder) writeAcceptAction(t *ParsingTable, state stateNum) {
	pos := state.Int()*t.terminalCount + symbolEOF.num().Int()
	t.actionTable[pos] = actionEntryAccept
}

func (t *ParsingTable) writeGoTo(state stateNum, sym symbol, nextState stateNum) {
	pos := state.Int()*t.nonTerminalCount + sym.num().Int()
	t.goToTable[pos] = newGoToEntry(nextState)
}

// fillDefaultActions propagates a reduction into the empty cells of
// each row. The cells are scanned in ascending terminal-text order
// with the end marker last, and the first reduction found fills every
// remaining empty cell of the row. Rows without a reduction keep their
// empty cells, which read back as the error action.
func (b *lrTableBuilder) fillDefaultActions(t *ParsingTable) {
	type termCol struct {
		num  int
		text string
	}
	cols := make([]termCol, 0, t.terminalCount)
	for num := terminalNumMin.Int(); num < t.terminalCount; num++ {
		cols = append(cols, termCol{num: num, text: b.termTexts[num]})
	}
	sort.Slice(cols, func(i, j int) bool {
		return cols[i].text < cols[j].text
	})
	cols = append(cols, termCol{num: symbolEOF.num().Int(), text: symbolNameEOF})

	for state := 0; state < t.stateCount; state++ {
		var fill actionEntry
		for _, col := range cols {
			act := t.actionTable[state*t.terminalCount+col.num]
			if ty, _, _ := act.describe(); ty == ActionTypeReduce {
				fill = act
				break
			}
		}
		if fill.isEmpty() {
			continue
		}
		for _, col := range cols {
			pos := state*t.terminalCount + col.num
			if t.actionTable[pos].isEmpty() {
				t.actionTable[pos] = fill
			}
		}
	}
}

// GenParsingTable builds the SLR(1) parsing table of a grammar: it
// augments the grammar, discovers the LR(0) states, and places shift,
// reduce, and accept actions. Conflicts never fail the build; they are
// resolved by the documented policy and recorded on the table.
func GenParsingTable(g *Grammar, ff *FirstFollow) (*ParsingTable, error) {
	if g.augmented {
		return nil, fmt.Errorf("GenParsingTable takes the declared grammar, not an augmented one")
	}
	ag, err := Augment(g)
	if err != nil {
		return nil, err
	}
	automaton, err := genLR0Automaton(ag.productionSet, ag.augStartSym)
	if err != nil {
		return nil, err
	}
	b := &lrTableBuilder{
		automaton:    automaton,
		prods:        ag.productionSet,
		follow:       ff.follow,
		termTexts:    g.TerminalTexts(),
		nonTermCount: len(g.NonTerminalTexts()),
	}
	return b.build()
}
