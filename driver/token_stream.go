package driver

import (
	"github.com/ibr-lang/ibrc/lexer"
)

// endMarkerName is the terminal name of the synthetic token appended
// behind the last real token. It matches the grammar's end marker.
const endMarkerName = "$"

// terminalToken is a lexed token reduced to what the parse loop needs:
// the terminal name the table is consulted with, the original lexeme,
// and the 1-based source line.
type terminalToken struct {
	name   string
	lexeme string
	line   int
	eof    bool
}

// newTokenQueue filters and collapses a token sequence. Tokens of a
// skip kind are dropped. A token of a literal kind keeps its kind as
// the terminal name; any other token is matched by its own text, so
// keywords and punctuation act as their own terminal names. The queue
// always ends with the end marker.
func newTokenQueue(toks []lexer.Token, skipKinds map[string]struct{}, literalKinds map[string]struct{}) []terminalToken {
	queue := make([]terminalToken, 0, len(toks)+1)
	lastLine := 1
	for _, tok := range toks {
		if tok.Row > lastLine {
			lastLine = tok.Row
		}
		if _, ok := skipKinds[tok.Kind]; ok {
			continue
		}
		name := tok.Lexeme
		if _, ok := literalKinds[tok.Kind]; ok {
			name = tok.Kind
		}
		queue = append(queue, terminalToken{
			name:   name,
			lexeme: tok.Lexeme,
			line:   tok.Row,
		})
	}
	queue = append(queue, terminalToken{
		name:   endMarkerName,
		lexeme: endMarkerName,
		line:   lastLine,
		eof:    true,
	})
	return queue
}
