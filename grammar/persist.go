package grammar

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// The analysis artifacts are persisted as CSV so a run can reuse the
// tables built by an earlier run instead of recomputing them. Reading
// a file back yields sets and tables equal to the written ones.

// WriteFirstFollow writes one row per non-terminal in declaration
// order. The first column holds the non-terminal name, the second its
// FIRST set, and the third its FOLLOW set. A FIRST set containing the
// empty-production marker lists ε, a FOLLOW set containing the end
// marker lists $.
func WriteFirstFollow(w io.Writer, ff *FirstFollow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"non_terminal", "first", "follow"}); err != nil {
		return err
	}
	for _, nt := range ff.g.NonTerminalTexts()[nonTerminalNumMin.Int():] {
		fst, fstEmpty, err := ff.First(nt)
		if err != nil {
			return err
		}
		if fstEmpty {
			fst = append(fst, symbolNameEmpty)
		}
		flw, flwEOF, err := ff.Follow(nt)
		if err != nil {
			return err
		}
		if flwEOF {
			flw = append(flw, symbolNameEOF)
		}
		err = cw.Write([]string{nt, formatSymbolSet(fst), formatSymbolSet(flw)})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadFirstFollow reads sets written by WriteFirstFollow back into a
// FirstFollow over the same grammar.
func ReadFirstFollow(r io.Reader, g *Grammar) (*FirstFollow, error) {
	if g.augmented {
		return nil, fmt.Errorf("ReadFirstFollow takes the declared grammar, not an augmented one")
	}
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 || len(records[0]) != 3 || records[0][0] != "non_terminal" {
		return nil, fmt.Errorf("malformed FIRST/FOLLOW file: unexpected header")
	}

	sr := g.symbolTable.reader()
	fst := newFirstSet(g.productionSet)
	flw := newFollow(g.productionSet)
	for _, rec := range records[1:] {
		ntSym, ok := sr.toSymbol(rec[0])
		if !ok || !ntSym.isNonTerminal() {
			return nil, fmt.Errorf("malformed FIRST/FOLLOW file: unknown non-terminal %v", rec[0])
		}
		fstEntry := fst.findBySymbol(ntSym)
		if fstEntry == nil {
			return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %v", rec[0])
		}
		for _, text := range parseSymbolSet(rec[1]) {
			if text == symbolNameEmpty {
				fstEntry.addEmpty()
				continue
			}
			sym, ok := sr.toSymbol(text)
			if !ok || !sym.isTerminal() {
				return nil, fmt.Errorf("malformed FIRST/FOLLOW file: unknown terminal %v", text)
			}
			fstEntry.add(sym)
		}
		flwEntry, err := flw.find(ntSym)
		if err != nil {
			return nil, err
		}
		for _, text := range parseSymbolSet(rec[2]) {
			if text == symbolNameEOF {
				flwEntry.addEOF()
				continue
			}
			sym, ok := sr.toSymbol(text)
			if !ok || !sym.isTerminal() {
				return nil, fmt.Errorf("malformed FIRST/FOLLOW file: unknown terminal %v", text)
			}
			flwEntry.add(sym)
		}
	}

	return &FirstFollow{
		g:      g,
		first:  fst,
		follow: flw,
	}, nil
}

func formatSymbolSet(texts []string) string {
	return "{" + strings.Join(texts, ", ") + "}"
}

func parseSymbolSet(set string) []string {
	set = strings.TrimPrefix(set, "{")
	set = strings.TrimSuffix(set, "}")
	if set == "" {
		return nil
	}
	texts := strings.Split(set, ", ")
	return texts
}

// WriteParsingTable writes one row per state. The first column holds
// the state number, followed by the ACTION columns (the declared
// terminals in ascending text order, then the end marker) and the GOTO
// columns (the declared non-terminals in ascending text order). ACTION
// cells read s<N> for a shift to state N, r<N> for a reduction of
// production N, acc for accept, and error otherwise. GOTO cells hold
// the next state or stay empty.
func WriteParsingTable(w io.Writer, t *ParsingTable, g *Grammar) error {
	termCols, nonTermCols := tableColumns(g)

	header := make([]string, 0, 1+len(termCols)+len(nonTermCols))
	header = append(header, "State")
	for _, col := range termCols {
		header = append(header, col.text)
	}
	for _, col := range nonTermCols {
		header = append(header, col.text)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for state := 0; state < t.stateCount; state++ {
		rec := make([]string, 0, len(header))
		rec = append(rec, strconv.Itoa(state))
		for _, col := range termCols {
			ty, next, prod := t.Action(state, col.num)
			switch ty {
			case ActionTypeShift:
				rec = append(rec, "s"+strconv.Itoa(next))
			case ActionTypeReduce:
				rec = append(rec, "r"+strconv.Itoa(prod))
			case ActionTypeAccept:
				rec = append(rec, "acc")
			default:
				rec = append(rec, "error")
			}
		}
		for _, col := range nonTermCols {
			ty, next := t.GoTo(state, col.num)
			if ty == GoToTypeRegistered {
				rec = append(rec, strconv.Itoa(next))
			} else {
				rec = append(rec, "")
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadParsingTable reads a table written by WriteParsingTable back
// into a ParsingTable over the same grammar. Conflict records are not
// persisted, so a reloaded table reports none.
func ReadParsingTable(r io.Reader, g *Grammar) (*ParsingTable, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 || len(records[0]) < 2 || records[0][0] != "State" {
		return nil, fmt.Errorf("malformed parsing table file: unexpected header")
	}

	type column struct {
		num      int
		terminal bool
	}
	cols := make([]column, 0, len(records[0])-1)
	for _, text := range records[0][1:] {
		if num, ok := g.TerminalNum(text); ok {
			cols = append(cols, column{num: num, terminal: true})
			continue
		}
		if num, ok := g.NonTerminalNum(text); ok {
			cols = append(cols, column{num: num})
			continue
		}
		return nil, fmt.Errorf("malformed parsing table file: unknown symbol %v", text)
	}

	termCount := len(g.TerminalTexts())
	nonTermCount := len(g.NonTerminalTexts())
	stateCount := len(records) - 1
	t := &ParsingTable{
		actionTable:      make([]actionEntry, stateCount*termCount),
		goToTable:        make([]goToEntry, stateCount*nonTermCount),
		stateCount:       stateCount,
		terminalCount:    termCount,
		nonTerminalCount: nonTermCount,
		initialState:     stateNumInitial,
	}
	for _, rec := range records[1:] {
		if len(rec) != len(cols)+1 {
			return nil, fmt.Errorf("malformed parsing table file: a row and the header differ in width")
		}
		state, err := strconv.Atoi(rec[0])
		if err != nil || state < 0 || state >= stateCount {
			return nil, fmt.Errorf("malformed parsing table file: invalid state %v", rec[0])
		}
		for i, cell := range rec[1:] {
			col := cols[i]
			if col.terminal {
				entry, err := parseActionCell(cell, stateCount)
				if err != nil {
					return nil, err
				}
				t.actionTable[state*termCount+col.num] = entry
			} else {
				if cell == "" {
					continue
				}
				next, err := strconv.Atoi(cell)
				if err != nil || next < 0 || next >= stateCount {
					return nil, fmt.Errorf("malformed parsing table file: invalid GOTO cell %v", cell)
				}
				t.goToTable[state*nonTermCount+col.num] = newGoToEntry(stateNum(next))
			}
		}
	}

	return t, nil
}

func parseActionCell(cell string, stateCount int) (actionEntry, error) {
	switch {
	case cell == "error" || cell == "":
		return actionEntryEmpty, nil
	case cell == "acc":
		return actionEntryAccept, nil
	case strings.HasPrefix(cell, "s"):
		next, err := strconv.Atoi(cell[1:])
		if err != nil || next < 0 || next >= stateCount {
			return actionEntryEmpty, fmt.Errorf("malformed parsing table file: invalid ACTION cell %v", cell)
		}
		return newShiftActionEntry(stateNum(next)), nil
	case strings.HasPrefix(cell, "r"):
		prod, err := strconv.Atoi(cell[1:])
		if err != nil {
			return actionEntryEmpty, fmt.Errorf("malformed parsing table file: invalid ACTION cell %v", cell)
		}
		return newReduceActionEntry(productionNum(prod)), nil
	}
	return actionEntryEmpty, fmt.Errorf("malformed parsing table file: invalid ACTION cell %v", cell)
}

type tableColumn struct {
	num  int
	text string
}

func tableColumns(g *Grammar) ([]tableColumn, []tableColumn) {
	termTexts := g.TerminalTexts()
	termCols := make([]tableColumn, 0, len(termTexts))
	for num := terminalNumMin.Int(); num < len(termTexts); num++ {
		termCols = append(termCols, tableColumn{num: num, text: termTexts[num]})
	}
	sort.Slice(termCols, func(i, j int) bool {
		return termCols[i].text < termCols[j].text
	})
	termCols = append(termCols, tableColumn{num: symbolEOF.num().Int(), text: symbolNameEOF})

	nonTermTexts := g.NonTerminalTexts()
	nonTermCols := make([]tableColumn, 0, len(nonTermTexts))
	for num := nonTerminalNumMin.Int(); num < len(nonTermTexts); num++ {
		nonTermCols = append(nonTermCols, tableColumn{num: num, text: nonTermTexts[num]})
	}
	sort.Slice(nonTermCols, func(i, j int) bool {
		return nonTermCols[i].text < nonTermCols[j].text
	})

	return termCols, nonTermCols
}
