// Package ibr declares the ibr language: its fixed grammar, its
// lexical specification, and the classification of its token kinds.
package ibr

import (
	mlspec "github.com/nihei9/maleeni/spec"

	"github.com/ibr-lang/ibrc/grammar"
)

// Token kinds produced by the lexical specification. The kinds whose
// tokens carry a meaningful literal keep their kind as the terminal
// name during parsing; every other token is matched by its own text.
const (
	KindComentario         = "comentario"
	KindQuebraDeLinha      = "quebra_de_linha"
	KindTabulacao          = "tabulacao"
	KindEspaco             = "espaco"
	KindTipoDeVariavel     = "tipo_de_variavel"
	KindEstruturaDeDecisao = "estrutura_de_decisao"
	KindLacoContado        = "laco_contado"
	KindLacoDeRepeticao    = "laco_de_repeticao"
	KindSaida              = "saida"
	KindEntrada            = "entrada"
	KindDelimitadorDeBloco = "delimitador_de_bloco"
	KindValorBool          = "valor_bool"
	KindID                 = "id"
	KindValorReal          = "valor_real"
	KindValorInteiro       = "valor_inteiro"
	KindString             = "string"
	KindCaractere          = "caractere"
	KindOperadorAritmetico = "operador_aritmetico"
	KindOperadorRelacional = "operador_relacional"
	KindOperadorLogico     = "operador_logico"
	KindAtribuicao         = "atribuicao"
	KindFimDeInstrucao     = "fim_de_instrucao"
	KindAbreParenteses     = "abre_parenteses"
	KindFechaParenteses    = "fecha_parenteses"
	KindTokenInvalido      = "token_invalido"
)

// SkipKinds lists the layout kinds the parser discards before
// consulting the parsing table.
func SkipKinds() []string {
	return []string{
		KindEspaco,
		KindTabulacao,
		KindQuebraDeLinha,
		KindComentario,
	}
}

// LiteralKinds lists the kinds whose tokens are matched by their kind
// name rather than their own text.
func LiteralKinds() []string {
	return []string{
		KindID,
		KindValorInteiro,
		KindValorReal,
		KindString,
	}
}

// LexSpec returns the lexical specification of the language. Entry
// order is significant: when two patterns match a token of the same
// length, the earlier entry wins, which is what keeps keywords from
// lexing as identifiers.
func LexSpec() *mlspec.LexSpec {
	entries := []struct {
		kind    string
		pattern string
	}{
		{KindComentario, `saturnita[^\u{000A}]*`},
		{KindQuebraDeLinha, `\u{000A}`},
		{KindTabulacao, `\u{0009}`},
		{KindEspaco, `\u{0020}`},
		{KindTipoDeVariavel, `tralalero|tralala|porcodio|porcoala`},
		{KindEstruturaDeDecisao, `lirili|larila`},
		{KindLacoContado, `dunmadin`},
		{KindLacoDeRepeticao, `tung|sahur`},
		{KindSaida, `chimpanzini`},
		{KindEntrada, `batapim`},
		{KindDelimitadorDeBloco, `delimitare|finitini`},
		{KindValorBool, `tripi|tropa`},
		{KindID, `[a-z][0-9A-Za-z]*`},
		{KindValorReal, `[0-9]+\.[0-9]+`},
		{KindValorInteiro, `[0-9]+`},
		{KindString, `"[^"]*"`},
		{KindCaractere, `'[^']*'`},
		{KindOperadorAritmetico, `\+|-|\*|/|%`},
		{KindOperadorRelacional, `==|!=|>=|<=|>|<`},
		{KindOperadorLogico, `&&|\|\|`},
		{KindAtribuicao, `=`},
		{KindFimDeInstrucao, `;`},
		{KindAbreParenteses, `\(`},
		{KindFechaParenteses, `\)`},
		{KindTokenInvalido, `.`},
	}

	spec := &mlspec.LexSpec{
		Name: "ibr",
	}
	for _, e := range entries {
		spec.Entries = append(spec.Entries, &mlspec.LexEntry{
			Kind:    mlspec.LexKindName(e.kind),
			Pattern: mlspec.LexPattern(e.pattern),
		})
	}
	return spec
}

// Grammar builds the fixed grammar of the language. The declaration
// order below is the canonical one: it fixes the production numbering
// the parsing table and its persisted form refer to.
func Grammar() (*grammar.Grammar, error) {
	b := grammar.NewBuilder()
	b.Add("PROGRAMA", "LISTA_DE_COMANDOS")
	b.Add("LISTA_DE_COMANDOS", "COMANDO", "LISTA_DE_COMANDOS")
	b.Add("LISTA_DE_COMANDOS", "COMANDO")
	b.Add("COMANDO", "DECLARACAO")
	b.Add("COMANDO", "ENTRADA")
	b.Add("COMANDO", "SAIDA")
	b.Add("COMANDO", "DECISAO")
	b.Add("COMANDO", "LACO_CONTADO")
	b.Add("COMANDO", "LACO_DE_REPETICAO")
	b.Add("COMANDO", "ATRIBUICAO")
	b.Add("COMANDO", "COMENTARIO")
	b.Add("DECLARACAO", "TIPO_DE_VARIAVEL", "id", ";")
	b.Add("DECLARACAO", "TIPO_DE_VARIAVEL", "id", "ATRIBUICAO", ";")
	b.Add("ATRIBUICAO", "=", "TERMO")
	b.Add("ATRIBUICAO", "=", "EXPRESSAO")
	b.Add("ATRIBUICAO", "TERMO", "=", "EXPRESSAO", ";")
	b.Add("EXPRESSAO", "EXPRESSAO", "OPERADOR", "TERMO")
	b.Add("EXPRESSAO", "TERMO")
	b.Add("OPERADOR", "OPERADOR_ARITMETICO")
	b.Add("OPERADOR", "OPERADOR_RELACIONAL")
	b.Add("OPERADOR", "OPERADOR_LOGICO")
	b.Add("ENTRADA", "batapim", "id", ";")
	b.Add("SAIDA", "chimpanzini", "EXPRESSAO", ";")
	b.Add("DECISAO", "lirili", "EXPRESSAO", "BLOCO")
	b.Add("DECISAO", "lirili", "EXPRESSAO", "BLOCO", "larila", "BLOCO")
	b.Add("DECISAO", "lirili", "EXPRESSAO", "BLOCO", "larila", "DECISAO")
	b.Add("LACO_CONTADO", "dunmadin", "(", "DECLARACAO", ";", "EXPRESSAO", ";", "EXPRESSAO", ")", "BLOCO")
	b.Add("LACO_DE_REPETICAO", "tung", "EXPRESSAO", "BLOCO")
	b.Add("BLOCO", "BLOCO_DECISAO")
	b.Add("BLOCO", "BLOCO_REPETICAO")
	b.Add("BLOCO_REPETICAO", "sahur", "LISTA_DE_COMANDOS", "sahur")
	b.Add("BLOCO_DECISAO", "delimitare", "LISTA_DE_COMANDOS", "finitini")
	b.Add("COMENTARIO", "saturnita", "TERMO")
	b.Add("TIPO_DE_VARIAVEL", "tralalero")
	b.Add("TIPO_DE_VARIAVEL", "tralala")
	b.Add("TIPO_DE_VARIAVEL", "porcodio")
	b.Add("TIPO_DE_VARIAVEL", "porcoala")
	b.Add("OPERADOR_ARITMETICO", "+")
	b.Add("OPERADOR_ARITMETICO", "-")
	b.Add("OPERADOR_ARITMETICO", "*")
	b.Add("OPERADOR_ARITMETICO", "/")
	b.Add("OPERADOR_ARITMETICO", "%")
	b.Add("OPERADOR_RELACIONAL", "==")
	b.Add("OPERADOR_RELACIONAL", "!=")
	b.Add("OPERADOR_RELACIONAL", ">")
	b.Add("OPERADOR_RELACIONAL", "<")
	b.Add("OPERADOR_RELACIONAL", "<=")
	b.Add("OPERADOR_RELACIONAL", ">=")
	b.Add("OPERADOR_LOGICO", "&&")
	b.Add("OPERADOR_LOGICO", "||")
	b.Add("TERMO", "id")
	b.Add("TERMO", "valor_inteiro")
	b.Add("TERMO", "valor_real")
	b.Add("TERMO", "VALOR_BOOL")
	b.Add("TERMO", "caractere")
	b.Add("TERMO", "string")
	b.Add("VALOR_BOOL", "tripi")
	b.Add("VALOR_BOOL", "tropa")
	return b.Build()
}
