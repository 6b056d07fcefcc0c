// Package codegen lowers a checked derivation tree to three-address
// code and translates that code to x86-64 assembly.
package codegen

import (
	"fmt"
	"strconv"

	"github.com/ibr-lang/ibrc/driver"
)

type OpType string

const (
	OpAdd OpType = "+"
	OpSub OpType = "-"
	OpMul OpType = "*"
	OpDiv OpType = "/"
	OpMod OpType = "%"
	OpEq  OpType = "=="
	OpNeq OpType = "!="
	OpLt  OpType = "<"
	OpGt  OpType = ">"
	OpLeq OpType = "<="
	OpGeq OpType = ">="
	OpAnd OpType = "&&"
	OpOr  OpType = "||"

	OpCopy   OpType = "="
	OpLabel  OpType = "label"
	OpGoto   OpType = "goto"
	OpIfz    OpType = "ifz"
	OpInput  OpType = "input"
	OpOutput OpType = "output"
)

func (op OpType) isBinary() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod, OpEq, OpNeq, OpLt, OpGt, OpLeq, OpGeq, OpAnd, OpOr:
		return true
	}
	return false
}

// Instruction is one three-address instruction. Operands are names
// (variables or temporaries t1, t2, ...) or literals; Label names a
// jump target L1, L2, ...
type Instruction struct {
	Op     OpType
	Arg1   string
	Arg2   string
	Result string
	Label  string
}

func (i Instruction) String() string {
	switch i.Op {
	case OpLabel:
		return i.Label + ":"
	case OpGoto:
		return fmt.Sprintf("goto %v", i.Label)
	case OpIfz:
		return fmt.Sprintf("ifz %v goto %v", i.Arg1, i.Label)
	case OpInput:
		return fmt.Sprintf("%v = input()", i.Result)
	case OpOutput:
		return fmt.Sprintf("output(%v)", i.Arg1)
	case OpCopy:
		return fmt.Sprintf("%v = %v", i.Result, i.Arg1)
	default:
		return fmt.Sprintf("%v = %v %v %v", i.Result, i.Arg1, i.Op, i.Arg2)
	}
}

// Generator lowers one derivation tree. Temporaries and labels are
// numbered from 1 in emission order.
type Generator struct {
	instrs     []Instruction
	tempCount  int
	labelCount int
}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate walks the tree and returns the emitted instructions.
func (g *Generator) Generate(root *driver.Node) []Instruction {
	g.visit(root)
	return g.instrs
}

func (g *Generator) newTemp() string {
	g.tempCount++
	return "t" + strconv.Itoa(g.tempCount)
}

func (g *Generator) newLabel() string {
	g.labelCount++
	return "L" + strconv.Itoa(g.labelCount)
}

func (g *Generator) emit(instr Instruction) {
	g.instrs = append(g.instrs, instr)
}

func (g *Generator) emitCopy(dest, src string) {
	g.emit(Instruction{Op: OpCopy, Arg1: src, Result: dest})
}

func (g *Generator) emitLabel(label string) {
	g.emit(Instruction{Op: OpLabel, Label: label})
}

func (g *Generator) visit(node *driver.Node) {
	if node == nil {
		return
	}
	switch node.KindName {
	case "PROGRAMA", "LISTA_DE_COMANDOS", "COMANDO", "BLOCO", "BLOCO_DECISAO", "BLOCO_REPETICAO":
		for _, c := range node.Children {
			g.visit(c)
		}
	case "DECLARACAO":
		g.visitDeclaracao(node)
	case "ATRIBUICAO":
		g.visitAtribuicao(node)
	case "ENTRADA":
		g.visitEntrada(node)
	case "SAIDA":
		g.visitSaida(node)
	case "DECISAO":
		g.visitDecisao(node)
	case "LACO_DE_REPETICAO":
		g.visitLacoDeRepeticao(node)
	case "LACO_CONTADO":
		g.visitLacoContado(node)
	}
}

// DECLARACAO → TIPO_DE_VARIAVEL id ; | TIPO_DE_VARIAVEL id ATRIBUICAO ;
// A bare declaration emits nothing; an initializer becomes a copy.
func (g *Generator) visitDeclaracao(node *driver.Node) {
	var name string
	var atrib *driver.Node
	for _, c := range node.Children {
		switch c.KindName {
		case "id":
			name = c.Text
		case "ATRIBUICAO":
			atrib = c
		}
	}
	if name == "" || atrib == nil {
		return
	}
	if src := g.visitInitializer(atrib); src != "" {
		g.emitCopy(name, src)
	}
}

// visitInitializer handles the declaration-tail shape of ATRIBUICAO:
// = TERMO | = EXPRESSAO.
func (g *Generator) visitInitializer(node *driver.Node) string {
	if len(node.Children) >= 2 && node.Children[0].KindName == "=" {
		return g.visitExpression(node.Children[1])
	}
	return ""
}

// The standalone command shape: TERMO = EXPRESSAO ;
func (g *Generator) visitAtribuicao(node *driver.Node) {
	if src := g.visitInitializer(node); src != "" {
		// Declaration-tail shape reached as a command; nothing to
		// store it into.
		return
	}
	if len(node.Children) >= 3 && node.Children[1].KindName == "=" {
		name := extractIdentifier(node.Children[0])
		src := g.visitExpression(node.Children[2])
		if name != "" && src != "" {
			g.emitCopy(name, src)
		}
	}
}

// ENTRADA → batapim id ;
func (g *Generator) visitEntrada(node *driver.Node) {
	if len(node.Children) < 2 {
		return
	}
	name := node.Children[1].Text
	tmp := g.newTemp()
	g.emit(Instruction{Op: OpInput, Result: tmp})
	g.emitCopy(name, tmp)
}

// SAIDA → chimpanzini EXPRESSAO ;
func (g *Generator) visitSaida(node *driver.Node) {
	if len(node.Children) < 2 {
		return
	}
	if src := g.visitExpression(node.Children[1]); src != "" {
		g.emit(Instruction{Op: OpOutput, Arg1: src})
	}
}

// DECISAO → lirili EXPRESSAO BLOCO [larila (BLOCO | DECISAO)]
func (g *Generator) visitDecisao(node *driver.Node) {
	if len(node.Children) < 3 {
		return
	}
	cond := g.visitExpression(node.Children[1])
	if cond == "" {
		return
	}

	var alt *driver.Node
	if len(node.Children) >= 5 {
		alt = node.Children[4]
	}

	if alt == nil {
		end := g.newLabel()
		g.emit(Instruction{Op: OpIfz, Arg1: cond, Label: end})
		g.visit(node.Children[2])
		g.emitLabel(end)
		return
	}

	elseLabel := g.newLabel()
	end := g.newLabel()
	g.emit(Instruction{Op: OpIfz, Arg1: cond, Label: elseLabel})
	g.visit(node.Children[2])
	g.emit(Instruction{Op: OpGoto, Label: end})
	g.emitLabel(elseLabel)
	g.visit(alt)
	g.emitLabel(end)
}

// LACO_DE_REPETICAO → tung EXPRESSAO BLOCO
func (g *Generator) visitLacoDeRepeticao(node *driver.Node) {
	if len(node.Children) < 3 {
		return
	}
	loop := g.newLabel()
	end := g.newLabel()
	g.emitLabel(loop)
	cond := g.visitExpression(node.Children[1])
	if cond == "" {
		return
	}
	g.emit(Instruction{Op: OpIfz, Arg1: cond, Label: end})
	g.visit(node.Children[2])
	g.emit(Instruction{Op: OpGoto, Label: loop})
	g.emitLabel(end)
}

// LACO_CONTADO → dunmadin ( DECLARACAO ; EXPRESSAO ; EXPRESSAO ) BLOCO
// The first expression is the loop condition; the second computes the
// next value of the counter declared in the header.
func (g *Generator) visitLacoContado(node *driver.Node) {
	if len(node.Children) < 9 {
		return
	}
	decl := node.Children[2]
	condNode := node.Children[4]
	stepNode := node.Children[6]
	block := node.Children[8]

	g.visit(decl)
	counter := extractIdentifier(decl)

	loop := g.newLabel()
	end := g.newLabel()
	g.emitLabel(loop)
	cond := g.visitExpression(condNode)
	if cond == "" {
		return
	}
	g.emit(Instruction{Op: OpIfz, Arg1: cond, Label: end})
	g.visit(block)
	if step := g.visitExpression(stepNode); step != "" && counter != "" {
		g.emitCopy(counter, step)
	}
	g.emit(Instruction{Op: OpGoto, Label: loop})
	g.emitLabel(end)
}

// visitExpression returns the operand holding the expression's value:
// a variable, a literal, or a fresh temporary for a compound
// expression.
func (g *Generator) visitExpression(node *driver.Node) string {
	if node == nil {
		return ""
	}

	if len(node.Children) == 0 {
		return operandOf(node)
	}
	if len(node.Children) == 1 {
		return g.visitExpression(node.Children[0])
	}
	if len(node.Children) >= 3 {
		left := g.visitExpression(node.Children[0])
		right := g.visitExpression(node.Children[2])
		op := operatorOf(node.Children[1])
		if left == "" || right == "" || !op.isBinary() {
			return ""
		}
		tmp := g.newTemp()
		g.emit(Instruction{Op: op, Arg1: left, Arg2: right, Result: tmp})
		return tmp
	}
	return ""
}

// operandOf maps a terminal leaf to a TAC operand. Booleans lower to
// 1 and 0.
func operandOf(leaf *driver.Node) string {
	switch leaf.Text {
	case "tripi":
		return "1"
	case "tropa":
		return "0"
	}
	return leaf.Text
}

// operatorOf digs the operator lexeme out of an OPERADOR subtree.
func operatorOf(node *driver.Node) OpType {
	for node != nil && len(node.Children) > 0 {
		node = node.Children[0]
	}
	if node == nil {
		return OpType("")
	}
	return OpType(node.Text)
}

func extractIdentifier(node *driver.Node) string {
	if node == nil {
		return ""
	}
	if node.KindName == "id" && len(node.Children) == 0 {
		return node.Text
	}
	for _, c := range node.Children {
		if found := extractIdentifier(c); found != "" {
			return found
		}
	}
	return ""
}
