// Package lexer wraps the maleeni lexing driver: it compiles a
// lexical specification into a DFA once and turns source text into a
// flat token sequence.
package lexer

import (
	"fmt"
	"io"
	"strings"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
)

// Token is a lexed token. Row is the 1-based source line the token
// starts on.
type Token struct {
	Kind    string
	Lexeme  string
	Row     int
	Invalid bool
}

type Lexer struct {
	clspec *mlspec.CompiledLexSpec
}

// New compiles a lexical specification. The returned Lexer is
// immutable and can lex any number of sources.
func New(lexSpec *mlspec.LexSpec) (*Lexer, error) {
	clspec, err, cErrs := mlcompiler.Compile(lexSpec, mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
	if err != nil {
		if len(cErrs) > 0 {
			var b strings.Builder
			writeCompileError(&b, cErrs[0])
			for _, cErr := range cErrs[1:] {
				fmt.Fprintf(&b, "\n")
				writeCompileError(&b, cErr)
			}
			return nil, fmt.Errorf(b.String())
		}
		return nil, err
	}
	return &Lexer{
		clspec: clspec,
	}, nil
}

// Lex reads src to the end and returns its tokens in order. A token
// the specification cannot match comes back with Invalid set and an
// empty kind.
func (l *Lexer) Lex(src io.Reader) ([]Token, error) {
	d, err := mldriver.NewLexer(mldriver.NewLexSpec(l.clspec), src)
	if err != nil {
		return nil, err
	}
	var toks []Token
	for {
		tok, err := d.Next()
		if err != nil {
			return nil, err
		}
		if tok.EOF {
			break
		}
		toks = append(toks, Token{
			Kind:    l.clspec.KindNames[tok.KindID].String(),
			Lexeme:  string(tok.Lexeme),
			Row:     tok.Row + 1,
			Invalid: tok.Invalid,
		})
	}
	return toks, nil
}

func writeCompileError(w io.Writer, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}
