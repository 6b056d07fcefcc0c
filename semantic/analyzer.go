// Package semantic walks a derivation tree, checks the typing and
// scoping rules of the language, and builds the symbol table.
package semantic

import (
	"fmt"

	"github.com/ibr-lang/ibrc/driver"
)

// The language names its types after its declaration keywords: an
// integer is a tralalero, a real a tralala, a character a porcodio,
// and a boolean a porcoala.
const (
	TypeInteiro   = "tralalero"
	TypeReal      = "tralala"
	TypeCaractere = "porcodio"
	TypeBool      = "porcoala"
	TypeString    = "string"
)

// typeNone marks an expression whose type could not be established.
// Checks involving it are skipped so one mistake does not cascade.
const typeNone = ""

const (
	opArit = "arit"
	opRel  = "rel"
	opLog  = "log"
)

// SymbolEntry is one declared variable: its name, its type, and the
// id of the scope it was declared in. Scope 0 is the global scope.
type SymbolEntry struct {
	Name  string
	Type  string
	Scope int
}

type SemanticError struct {
	Message string
}

func (e *SemanticError) String() string {
	return "semantic error: " + e.Message
}

// Analyzer validates one derivation tree. A zero scope is pushed at
// construction and never popped; every block pushes a fresh scope id.
type Analyzer struct {
	symbols    []*SymbolEntry
	scopeStack []int
	scopeID    int
	errors     []*SemanticError
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{
		scopeStack: []int{0},
	}
}

// Analyze walks the tree and returns the semantic errors in the order
// they were found. Call it once per Analyzer.
func (a *Analyzer) Analyze(root *driver.Node) []*SemanticError {
	a.visit(root)
	return a.errors
}

// SymbolTable returns the declared variables in declaration order.
func (a *Analyzer) SymbolTable() []*SymbolEntry {
	return a.symbols
}

func (a *Analyzer) errorf(format string, args ...interface{}) {
	a.errors = append(a.errors, &SemanticError{
		Message: fmt.Sprintf(format, args...),
	})
}

func (a *Analyzer) enterScope() {
	a.scopeID++
	a.scopeStack = append(a.scopeStack, a.scopeID)
}

func (a *Analyzer) exitScope() {
	if len(a.scopeStack) > 1 {
		a.scopeStack = a.scopeStack[:len(a.scopeStack)-1]
	}
}

func (a *Analyzer) declare(name, typ string) {
	cur := a.scopeStack[len(a.scopeStack)-1]
	for _, s := range a.symbols {
		if s.Name == name && s.Scope == cur {
			a.errorf("variable %v already declared in scope %v", name, cur)
			return
		}
	}
	a.symbols = append(a.symbols, &SymbolEntry{
		Name:  name,
		Type:  typ,
		Scope: cur,
	})
}

// lookup resolves a name against the scope stack, innermost scope
// first.
func (a *Analyzer) lookup(name string) *SymbolEntry {
	for i := len(a.scopeStack) - 1; i >= 0; i-- {
		sc := a.scopeStack[i]
		for _, s := range a.symbols {
			if s.Name == name && s.Scope == sc {
				return s
			}
		}
	}
	return nil
}

// visit dispatches on the node kind and returns the node's type, or
// typeNone when the node has none. The cases cover every non-terminal
// of the grammar; terminal nodes fall through to the default.
func (a *Analyzer) visit(node *driver.Node) string {
	if node == nil {
		return typeNone
	}

	switch node.KindName {
	case "PROGRAMA", "LISTA_DE_COMANDOS", "COMANDO", "BLOCO", "COMENTARIO", "LACO_CONTADO":
		return a.visitChildren(node)
	case "BLOCO_DECISAO", "BLOCO_REPETICAO":
		a.enterScope()
		a.visitChildren(node)
		a.exitScope()
		return typeNone
	case "DECLARACAO":
		a.visitDeclaracao(node)
		return typeNone
	case "TIPO_DE_VARIAVEL":
		if len(node.Children) > 0 {
			return node.Children[0].KindName
		}
		return typeNone
	case "ENTRADA":
		a.visitEntrada(node)
		return typeNone
	case "SAIDA":
		a.visitSaida(node)
		return typeNone
	case "DECISAO":
		a.visitCondicional(node, "lirili")
		return typeNone
	case "LACO_DE_REPETICAO":
		a.visitCondicional(node, "tung")
		return typeNone
	case "ATRIBUICAO":
		return a.visitAtribuicao(node)
	case "EXPRESSAO":
		return a.visitExpressao(node)
	case "OPERADOR":
		return a.visitOperador(node)
	case "TERMO":
		return a.visitTermo(node)
	case "VALOR_BOOL":
		return TypeBool
	default:
		// Terminal nodes carry no type of their own.
		return a.visitChildren(node)
	}
}

func (a *Analyzer) visitChildren(node *driver.Node) string {
	for _, c := range node.Children {
		a.visit(c)
	}
	return typeNone
}

// DECLARACAO → TIPO_DE_VARIAVEL id ; | TIPO_DE_VARIAVEL id ATRIBUICAO ;
func (a *Analyzer) visitDeclaracao(node *driver.Node) {
	var typ, name string
	var atrib *driver.Node
	for _, c := range node.Children {
		switch c.KindName {
		case "TIPO_DE_VARIAVEL":
			typ = a.visit(c)
		case "id":
			name = c.Text
		case "ATRIBUICAO":
			atrib = c
		}
	}

	if typ == typeNone || name == "" {
		a.errorf("malformed declaration (missing type or name)")
		return
	}

	a.declare(name, typ)

	if atrib != nil {
		rhsType := a.visit(atrib)
		if rhsType != typeNone && rhsType != typ {
			a.errorf("incompatible assignment to %v: %v = %v", name, typ, rhsType)
		}
	}
}

// ENTRADA → batapim id ;
func (a *Analyzer) visitEntrada(node *driver.Node) {
	for _, c := range node.Children {
		if c.KindName == "id" {
			if a.lookup(c.Text) == nil {
				a.errorf("variable %v read by batapim but never declared", c.Text)
			}
		}
	}
}

// SAIDA → chimpanzini EXPRESSAO ;
func (a *Analyzer) visitSaida(node *driver.Node) {
	for _, c := range node.Children {
		if c.KindName == "EXPRESSAO" {
			if a.visit(c) == typeNone {
				a.errorf("invalid expression in chimpanzini (undefined type)")
			}
		}
	}
}

// DECISAO and LACO_DE_REPETICAO both guard their blocks with a
// porcoala condition.
func (a *Analyzer) visitCondicional(node *driver.Node, keyword string) {
	condChecked := false
	for _, c := range node.Children {
		switch c.KindName {
		case "EXPRESSAO":
			if condChecked {
				continue
			}
			condChecked = true
			condType := a.visit(c)
			if condType != typeNone && condType != TypeBool {
				a.errorf("the %v condition must be %v, got %v", keyword, TypeBool, condType)
			}
		case "BLOCO", "BLOCO_DECISAO", "BLOCO_REPETICAO", "DECISAO":
			a.visit(c)
		}
	}
}

// ATRIBUICAO appears in two shapes: as the tail of a declaration
// (= TERMO | = EXPRESSAO) and as a standalone command
// (TERMO = EXPRESSAO ;).
func (a *Analyzer) visitAtribuicao(node *driver.Node) string {
	if len(node.Children) == 0 {
		return typeNone
	}

	if len(node.Children) >= 2 && node.Children[0].KindName == "=" {
		return a.visit(node.Children[1])
	}

	if len(node.Children) >= 3 && node.Children[1].KindName == "=" {
		lhsType := a.visit(node.Children[0])
		rhsType := a.visit(node.Children[2])

		lhs := node.Children[0]
		if len(lhs.Children) > 0 && lhs.Children[0].KindName == "id" {
			name := lhs.Children[0].Text
			sym := a.lookup(name)
			if sym == nil {
				a.errorf("variable %v assigned but never declared", name)
				return typeNone
			}
			lhsType = sym.Type
		}

		if lhsType != typeNone && rhsType != typeNone && lhsType != rhsType {
			a.errorf("incompatible assignment: %v = %v", lhsType, rhsType)
		}
		return lhsType
	}

	return a.visitChildren(node)
}

// EXPRESSAO → EXPRESSAO OPERADOR TERMO | TERMO
func (a *Analyzer) visitExpressao(node *driver.Node) string {
	if len(node.Children) == 1 {
		return a.visit(node.Children[0])
	}
	if len(node.Children) < 3 {
		return a.visitChildren(node)
	}

	leftType := a.visit(node.Children[0])
	opClass := a.visit(node.Children[1])
	rightType := a.visit(node.Children[2])

	switch opClass {
	case opArit:
		if leftType != rightType {
			a.errorf("incompatible types in arithmetic operation")
		}
		if leftType != TypeInteiro && leftType != TypeReal {
			a.errorf("arithmetic operation applied to a non-numeric type")
		}
		return leftType
	case opRel:
		if leftType != rightType {
			a.errorf("relational comparison between different types")
		}
		return TypeBool
	case opLog:
		if leftType != TypeBool || rightType != TypeBool {
			a.errorf("logical operation requires %v on both sides", TypeBool)
		}
		return TypeBool
	}
	return leftType
}

func (a *Analyzer) visitOperador(node *driver.Node) string {
	if len(node.Children) == 0 {
		return typeNone
	}
	switch node.Children[0].KindName {
	case "OPERADOR_ARITMETICO":
		return opArit
	case "OPERADOR_RELACIONAL":
		return opRel
	case "OPERADOR_LOGICO":
		return opLog
	}
	return typeNone
}

// TERMO → id | valor_inteiro | valor_real | VALOR_BOOL | caractere | string
func (a *Analyzer) visitTermo(node *driver.Node) string {
	if len(node.Children) == 0 {
		return typeNone
	}
	leaf := node.Children[0]
	switch leaf.KindName {
	case "id":
		sym := a.lookup(leaf.Text)
		if sym == nil {
			a.errorf("variable %v used but never declared", leaf.Text)
			return typeNone
		}
		return sym.Type
	case "valor_inteiro":
		return TypeInteiro
	case "valor_real":
		return TypeReal
	case "VALOR_BOOL":
		return TypeBool
	case "caractere":
		return TypeCaractere
	case "string":
		return TypeString
	}
	return typeNone
}
