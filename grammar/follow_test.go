package grammar

import (
	"testing"
)

func TestGenFirstFollow_Follow(t *testing.T) {
	tests := []struct {
		caption string
		build   func(b *Builder)
		follow  map[string]struct {
			symbols []string
			eof     bool
		}
	}{
		{
			caption: "a left-recursive grammar without empty productions",
			build: func(b *Builder) {
				b.Add("E", "E", "+", "T")
				b.Add("E", "T")
				b.Add("T", "T", "*", "F")
				b.Add("T", "F")
				b.Add("F", "(", "E", ")")
				b.Add("F", "id")
			},
			follow: map[string]struct {
				symbols []string
				eof     bool
			}{
				"E": {symbols: []string{")", "+"}, eof: true},
				"T": {symbols: []string{")", "*", "+"}, eof: true},
				"F": {symbols: []string{")", "*", "+"}, eof: true},
			},
		},
		{
			caption: "an empty non-terminal passes its FOLLOW to the symbol before it",
			build: func(b *Builder) {
				b.Add("s", "t", "u", "b")
				b.Add("t", "a")
				b.Add("u", "c")
				b.Add("u", "ε")
			},
			follow: map[string]struct {
				symbols []string
				eof     bool
			}{
				"s": {symbols: []string{}, eof: true},
				"t": {symbols: []string{"b", "c"}},
				"u": {symbols: []string{"b"}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			b := NewBuilder()
			tt.build(b)
			g, err := b.Build()
			if err != nil {
				t.Fatal(err)
			}
			ff, err := GenFirstFollow(g)
			if err != nil {
				t.Fatal(err)
			}
			for nt, want := range tt.follow {
				symbols, eof, err := ff.Follow(nt)
				if err != nil {
					t.Fatal(err)
				}
				if eof != want.eof {
					t.Errorf("unexpected end marker in FOLLOW(%v); want: %v, got: %v", nt, want.eof, eof)
				}
				testSymbolTexts(t, "FOLLOW", nt, want.symbols, symbols)
			}
		})
	}
}
