package grammar

import (
	"testing"
)

func genTable(t *testing.T, build func(b *Builder)) (*Grammar, *ParsingTable) {
	t.Helper()
	b := NewBuilder()
	build(b)
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	ff, err := GenFirstFollow(g)
	if err != nil {
		t.Fatal(err)
	}
	ptab, err := GenParsingTable(g, ff)
	if err != nil {
		t.Fatal(err)
	}
	return g, ptab
}

// drive runs a terminal sequence against a table the way a parser
// would, without building a tree. It returns whether the sequence was
// accepted.
func drive(t *testing.T, g *Grammar, ptab *ParsingTable, terms []string) bool {
	t.Helper()
	termNum := func(pos int) int {
		if pos >= len(terms) {
			return g.EOFTerm()
		}
		num, ok := g.TerminalNum(terms[pos])
		if !ok {
			t.Fatalf("unknown terminal: %v", terms[pos])
		}
		return num
	}

	stack := []int{ptab.InitialState()}
	pos := 0
	for step := 0; step < 1000; step++ {
		ty, nextState, prodNum := ptab.Action(stack[len(stack)-1], termNum(pos))
		switch ty {
		case ActionTypeShift:
			stack = append(stack, nextState)
			pos++
		case ActionTypeReduce:
			_, lhsNum, rhsLen, ok := g.ProductionInfo(prodNum)
			if !ok {
				t.Fatalf("a reduce action refers to an unknown production: %v", prodNum)
			}
			stack = stack[:len(stack)-rhsLen]
			gty, gotoState := ptab.GoTo(stack[len(stack)-1], lhsNum)
			if gty != GoToTypeRegistered {
				t.Fatalf("GOTO is undefined; state: %v, non-terminal: %v", stack[len(stack)-1], lhsNum)
			}
			stack = append(stack, gotoState)
		case ActionTypeAccept:
			return true
		default:
			return false
		}
	}
	t.Fatal("the drive didn't terminate")
	return false
}

func TestGenParsingTable(t *testing.T) {
	g, ptab := genTable(t, func(b *Builder) {
		b.Add("E", "E", "+", "T")
		b.Add("E", "T")
		b.Add("T", "T", "*", "F")
		b.Add("T", "F")
		b.Add("F", "(", "E", ")")
		b.Add("F", "id")
	})

	if ptab.HasConflicts() {
		t.Fatalf("the expression grammar must be conflict-free, got: %v", ptab.Conflicts())
	}
	if ptab.StateCount() != 12 {
		t.Fatalf("unexpected state count; want: 12, got: %v", ptab.StateCount())
	}

	inputs := []struct {
		caption  string
		terms    []string
		accepted bool
	}{
		{
			caption:  "a single operand",
			terms:    []string{"id"},
			accepted: true,
		},
		{
			caption:  "precedence and parentheses",
			terms:    []string{"(", "id", "+", "id", ")", "*", "id"},
			accepted: true,
		},
		{
			caption:  "a dangling operator is rejected",
			terms:    []string{"id", "+"},
			accepted: false,
		},
		{
			caption:  "an empty input is rejected",
			terms:    []string{},
			accepted: false,
		},
	}
	for _, tt := range inputs {
		t.Run(tt.caption, func(t *testing.T) {
			accepted := drive(t, g, ptab, tt.terms)
			if accepted != tt.accepted {
				t.Fatalf("unexpected acceptance; want: %v, got: %v", tt.accepted, accepted)
			}
		})
	}
}

func TestGenParsingTable_ShiftReduceConflict(t *testing.T) {
	g, ptab := genTable(t, func(b *Builder) {
		b.Add("E", "E", "+", "E")
		b.Add("E", "id")
	})

	var srs []*ShiftReduceConflict
	for _, c := range ptab.Conflicts() {
		if sr, ok := c.(*ShiftReduceConflict); ok {
			srs = append(srs, sr)
		}
	}
	if len(srs) == 0 {
		t.Fatal("an expected shift/reduce conflict was not recorded")
	}

	// The shift wins, so the ambiguous input still parses.
	for _, sr := range srs {
		termNum, ok := g.TerminalNum(sr.Terminal)
		if !ok {
			t.Fatalf("the conflict names an unknown terminal: %v", sr.Terminal)
		}
		ty, nextState, _ := ptab.Action(sr.State, termNum)
		if ty != ActionTypeShift || nextState != sr.NextState {
			t.Fatalf("the conflicted cell must hold the shift; state: %v, terminal: %v, got: %v", sr.State, sr.Terminal, ty)
		}
	}
	if !drive(t, g, ptab, []string{"id", "+", "id", "+", "id"}) {
		t.Fatal("the input must be accepted")
	}
}

func TestGenParsingTable_ReduceReduceConflict(t *testing.T) {
	g, ptab := genTable(t, func(b *Builder) {
		b.Add("S", "A")
		b.Add("S", "B")
		b.Add("A", "a")
		b.Add("B", "a")
	})

	var rrs []*ReduceReduceConflict
	for _, c := range ptab.Conflicts() {
		if rr, ok := c.(*ReduceReduceConflict); ok {
			rrs = append(rrs, rr)
		}
	}
	if len(rrs) == 0 {
		t.Fatal("an expected reduce/reduce conflict was not recorded")
	}
	for _, rr := range rrs {
		if rr.Adopted != 3 {
			t.Fatalf("the later-declared production must win; want: 3, got: %v", rr.Adopted)
		}
	}

	// After shifting a, reducing at the end marker must use B → a.
	aNum, _ := g.TerminalNum("a")
	ty, aState, _ := ptab.Action(ptab.InitialState(), aNum)
	if ty != ActionTypeShift {
		t.Fatalf("the initial state must shift a, got: %v", ty)
	}
	ty, _, prodNum := ptab.Action(aState, g.EOFTerm())
	if ty != ActionTypeReduce || prodNum != 3 {
		t.Fatalf("unexpected action at the end marker; want: reduce 3, got: %v %v", ty, prodNum)
	}
}

func TestGenParsingTable_DefaultFill(t *testing.T) {
	g, ptab := genTable(t, func(b *Builder) {
		b.Add("E", "E", "+", "T")
		b.Add("E", "T")
		b.Add("T", "T", "*", "F")
		b.Add("T", "F")
		b.Add("F", "(", "E", ")")
		b.Add("F", "id")
	})

	// The state reached on id holds only F → id·, so every one of its
	// terminal cells becomes that reduce.
	idNum, _ := g.TerminalNum("id")
	ty, idState, _ := ptab.Action(ptab.InitialState(), idNum)
	if ty != ActionTypeShift {
		t.Fatalf("the initial state must shift id, got: %v", ty)
	}
	for _, term := range []string{"+", "*", "(", ")", "id"} {
		termNum, _ := g.TerminalNum(term)
		ty, _, prodNum := ptab.Action(idState, termNum)
		if ty != ActionTypeReduce || prodNum != 5 {
			t.Fatalf("unexpected action on %v; want: reduce 5, got: %v %v", term, ty, prodNum)
		}
	}
	ty, _, prodNum := ptab.Action(idState, g.EOFTerm())
	if ty != ActionTypeReduce || prodNum != 5 {
		t.Fatalf("unexpected action at the end marker; want: reduce 5, got: %v %v", ty, prodNum)
	}

	// The initial state has no reduce, so its empty cells stay errors.
	plusNum, _ := g.TerminalNum("+")
	ty, _, _ = ptab.Action(ptab.InitialState(), plusNum)
	if ty != ActionTypeError {
		t.Fatalf("unexpected action on + in the initial state; want: error, got: %v", ty)
	}
}
