package driver

import (
	"testing"

	"github.com/ibr-lang/ibrc/lexer"
)

func TestNewTokenQueue(t *testing.T) {
	skip := map[string]struct{}{
		"espaco":          {},
		"quebra_de_linha": {},
		"comentario":      {},
	}
	literal := map[string]struct{}{
		"id":            {},
		"valor_inteiro": {},
	}

	toks := []lexer.Token{
		{Kind: "tipo_de_variavel", Lexeme: "tralalero", Row: 1},
		{Kind: "espaco", Lexeme: " ", Row: 1},
		{Kind: "id", Lexeme: "x", Row: 1},
		{Kind: "atribuicao", Lexeme: "=", Row: 1},
		{Kind: "valor_inteiro", Lexeme: "5", Row: 1},
		{Kind: "fim_de_instrucao", Lexeme: ";", Row: 1},
		{Kind: "quebra_de_linha", Lexeme: "\n", Row: 1},
		{Kind: "comentario", Lexeme: "saturnita hello", Row: 2},
	}
	queue := newTokenQueue(toks, skip, literal)

	want := []terminalToken{
		{name: "tralalero", lexeme: "tralalero", line: 1},
		{name: "id", lexeme: "x", line: 1},
		{name: "=", lexeme: "=", line: 1},
		{name: "valor_inteiro", lexeme: "5", line: 1},
		{name: ";", lexeme: ";", line: 1},
		{name: "$", lexeme: "$", line: 2, eof: true},
	}
	if len(queue) != len(want) {
		t.Fatalf("unexpected queue length; want: %v, got: %v", len(want), len(queue))
	}
	for i, wantTok := range want {
		if queue[i] != wantTok {
			t.Fatalf("unexpected token at %v; want: %#v, got: %#v", i, wantTok, queue[i])
		}
	}
}

func TestNewTokenQueue_EmptyInput(t *testing.T) {
	queue := newTokenQueue(nil, nil, nil)
	if len(queue) != 1 {
		t.Fatalf("unexpected queue length; want: 1, got: %v", len(queue))
	}
	if !queue[0].eof || queue[0].name != "$" || queue[0].line != 1 {
		t.Fatalf("unexpected end marker: %#v", queue[0])
	}
}
