package grammar

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"testing"
)

func TestFirstFollowRoundTrip(t *testing.T) {
	b := NewBuilder()
	b.Add("E", "E", "+", "T")
	b.Add("E", "T")
	b.Add("T", "T", "*", "F")
	b.Add("T", "F")
	b.Add("F", "(", "E", ")")
	b.Add("F", "id")
	b.Add("F", "ε")
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	ff, err := GenFirstFollow(g)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	err = WriteFirstFollow(&buf, ff)
	if err != nil {
		t.Fatal(err)
	}
	restored, err := ReadFirstFollow(bytes.NewReader(buf.Bytes()), g)
	if err != nil {
		t.Fatal(err)
	}

	for _, nt := range []string{"E", "T", "F"} {
		wantFirst, wantEmpty, err := ff.First(nt)
		if err != nil {
			t.Fatal(err)
		}
		gotFirst, gotEmpty, err := restored.First(nt)
		if err != nil {
			t.Fatal(err)
		}
		if gotEmpty != wantEmpty {
			t.Errorf("unexpected emptiness of FIRST(%v); want: %v, got: %v", nt, wantEmpty, gotEmpty)
		}
		testSymbolTexts(t, "FIRST", nt, wantFirst, gotFirst)

		wantFollow, wantEOF, err := ff.Follow(nt)
		if err != nil {
			t.Fatal(err)
		}
		gotFollow, gotEOF, err := restored.Follow(nt)
		if err != nil {
			t.Fatal(err)
		}
		if gotEOF != wantEOF {
			t.Errorf("unexpected end marker in FOLLOW(%v); want: %v, got: %v", nt, wantEOF, gotEOF)
		}
		testSymbolTexts(t, "FOLLOW", nt, wantFollow, gotFollow)
	}
}

func TestParsingTableRoundTrip(t *testing.T) {
	g, ptab := genTable(t, func(b *Builder) {
		b.Add("E", "E", "+", "T")
		b.Add("E", "T")
		b.Add("T", "T", "*", "F")
		b.Add("T", "F")
		b.Add("F", "(", "E", ")")
		b.Add("F", "id")
	})

	var buf bytes.Buffer
	err := WriteParsingTable(&buf, ptab, g)
	if err != nil {
		t.Fatal(err)
	}
	restored, err := ReadParsingTable(bytes.NewReader(buf.Bytes()), g)
	if err != nil {
		t.Fatal(err)
	}

	if restored.StateCount() != ptab.StateCount() {
		t.Fatalf("unexpected state count; want: %v, got: %v", ptab.StateCount(), restored.StateCount())
	}
	if restored.InitialState() != ptab.InitialState() {
		t.Fatalf("unexpected initial state; want: %v, got: %v", ptab.InitialState(), restored.InitialState())
	}

	termNums := []int{g.EOFTerm()}
	for _, text := range []string{"+", "*", "(", ")", "id"} {
		num, ok := g.TerminalNum(text)
		if !ok {
			t.Fatalf("unknown terminal: %v", text)
		}
		termNums = append(termNums, num)
	}
	var nonTermNums []int
	for _, text := range []string{"E", "T", "F"} {
		num, ok := g.NonTerminalNum(text)
		if !ok {
			t.Fatalf("unknown non-terminal: %v", text)
		}
		nonTermNums = append(nonTermNums, num)
	}

	for state := 0; state < ptab.StateCount(); state++ {
		for _, term := range termNums {
			wantTy, wantState, wantProd := ptab.Action(state, term)
			gotTy, gotState, gotProd := restored.Action(state, term)
			if gotTy != wantTy || gotState != wantState || gotProd != wantProd {
				t.Fatalf("ACTION(%v, %v) changed; want: %v %v %v, got: %v %v %v", state, term, wantTy, wantState, wantProd, gotTy, gotState, gotProd)
			}
		}
		for _, nonTerm := range nonTermNums {
			wantTy, wantState := ptab.GoTo(state, nonTerm)
			gotTy, gotState := restored.GoTo(state, nonTerm)
			if gotTy != wantTy || gotState != wantState {
				t.Fatalf("GOTO(%v, %v) changed; want: %v %v, got: %v %v", state, nonTerm, wantTy, wantState, gotTy, gotState)
			}
		}
	}

	// The drive behaves identically over the restored table.
	if !drive(t, g, ptab, []string{"id", "*", "(", "id", "+", "id", ")"}) {
		t.Fatal("the input must be accepted by the original table")
	}
	if !drive(t, g, restored, []string{"id", "*", "(", "id", "+", "id", ")"}) {
		t.Fatal("the input must be accepted by the restored table")
	}
}

func TestReadParsingTable_RejectsCorruptTargets(t *testing.T) {
	g, ptab := genTable(t, func(b *Builder) {
		b.Add("E", "E", "+", "T")
		b.Add("E", "T")
		b.Add("T", "T", "*", "F")
		b.Add("T", "F")
		b.Add("F", "(", "E", ")")
		b.Add("F", "id")
	})

	var buf bytes.Buffer
	if err := WriteParsingTable(&buf, ptab, g); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	corruptCell := func(records [][]string, match func(cell string) bool, repl string) bool {
		for _, rec := range records[1:] {
			for i := 1; i < len(rec); i++ {
				if match(rec[i]) {
					rec[i] = repl
					return true
				}
			}
		}
		return false
	}
	isShift := func(cell string) bool {
		return strings.HasPrefix(cell, "s")
	}
	isGoTo := func(cell string) bool {
		_, err := strconv.Atoi(cell)
		return cell != "" && err == nil
	}

	tests := []struct {
		caption string
		match   func(cell string) bool
		repl    string
	}{
		{
			caption: "a shift beyond the state count",
			match:   isShift,
			repl:    "s999",
		},
		{
			caption: "a negative shift target",
			match:   isShift,
			repl:    "s-1",
		},
		{
			caption: "a GOTO beyond the state count",
			match:   isGoTo,
			repl:    "999",
		},
		{
			caption: "a negative GOTO target",
			match:   isGoTo,
			repl:    "-1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			corrupted := make([][]string, len(records))
			for i, rec := range records {
				corrupted[i] = append([]string{}, rec...)
			}
			if !corruptCell(corrupted, tt.match, tt.repl) {
				t.Fatal("no cell to corrupt was found")
			}
			var cbuf bytes.Buffer
			cw := csv.NewWriter(&cbuf)
			if err := cw.WriteAll(corrupted); err != nil {
				t.Fatal(err)
			}
			_, err := ReadParsingTable(bytes.NewReader(cbuf.Bytes()), g)
			if err == nil {
				t.Fatal("an expected error didn't occur")
			}
			if !strings.Contains(err.Error(), "malformed") {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
