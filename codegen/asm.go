package codegen

import (
	"fmt"
	"sort"
	"strings"
)

// Translate turns three-address code into x86-64 assembly using the
// Intel syntax and the Microsoft x64 calling convention. All scalar
// operands live in .data as 64-bit slots; string literals are
// deduplicated into str_N entries.
func Translate(instrs []Instruction) []string {
	t := newTranslator(instrs)
	return t.translate()
}

type translator struct {
	instrs []Instruction
	slots  []string
	strs   []string
	str2ID map[string]int
	lines  []string
}

func newTranslator(instrs []Instruction) *translator {
	t := &translator{
		instrs: instrs,
		str2ID: map[string]int{},
	}
	t.collectOperands()
	return t
}

// collectOperands gathers every variable and temporary into the data
// slot list and interns string literals.
func (t *translator) collectOperands() {
	seen := map[string]struct{}{}
	add := func(operand string) {
		switch {
		case operand == "":
		case isStringLiteral(operand):
			if _, ok := t.str2ID[operand]; !ok {
				t.str2ID[operand] = len(t.strs)
				t.strs = append(t.strs, operand)
			}
		case isNumericLiteral(operand):
		default:
			if _, ok := seen[operand]; !ok {
				seen[operand] = struct{}{}
				t.slots = append(t.slots, operand)
			}
		}
	}
	for _, instr := range t.instrs {
		add(instr.Arg1)
		add(instr.Arg2)
		add(instr.Result)
	}
	sort.Strings(t.slots)
}

func (t *translator) emit(format string, args ...interface{}) {
	t.lines = append(t.lines, fmt.Sprintf(format, args...))
}

func (t *translator) translate() []string {
	t.emitPrologue()
	t.emitData()
	t.emitTextPrologue()
	for _, instr := range t.instrs {
		t.emitInstruction(instr)
	}
	t.emitEpilogue()
	return t.lines
}

func (t *translator) emitPrologue() {
	t.emit(".intel_syntax noprefix")
	t.emit(".global main")
	t.emit(".extern printf")
	t.emit(".extern scanf")
	t.emit("")
}

func (t *translator) emitData() {
	t.emit(".data")
	t.emit("fmt_in: .asciz \"%%ld\"")
	t.emit("fmt_out: .asciz \"%%ld\\n\"")
	t.emit("fmt_str: .asciz \"%%s\\n\"")
	for _, name := range t.slots {
		t.emit("%v: .quad 0", name)
	}
	for i, lit := range t.strs {
		t.emit("str_%v: .asciz %v", i, lit)
	}
	t.emit("")
}

func (t *translator) emitTextPrologue() {
	t.emit(".text")
	t.emit("main:")
	t.emit("    push rbp")
	t.emit("    mov rbp, rsp")
	// Shadow space for the Windows x64 calling convention.
	t.emit("    sub rsp, 32")
	t.emit("")
}

func (t *translator) emitEpilogue() {
	t.emit("")
	t.emit("    mov rsp, rbp")
	t.emit("    pop rbp")
	t.emit("    mov eax, 0")
	t.emit("    ret")
}

// loadOperand moves an operand's value into a register. Named slots
// are addressed rip-relative. Real literals truncate to their integer
// part since every slot is a 64-bit integer.
func (t *translator) loadOperand(reg, operand string) {
	if isNumericLiteral(operand) {
		if i := strings.IndexByte(operand, '.'); i >= 0 {
			operand = operand[:i]
		}
		t.emit("    mov %v, %v", reg, operand)
		return
	}
	t.emit("    mov %v, qword ptr [rip + %v]", reg, operand)
}

func (t *translator) storeResult(name, reg string) {
	t.emit("    mov qword ptr [rip + %v], %v", name, reg)
}

func (t *translator) emitInstruction(instr Instruction) {
	switch instr.Op {
	case OpLabel:
		t.emit("%v:", instr.Label)
	case OpGoto:
		t.emit("    jmp %v", instr.Label)
	case OpIfz:
		t.loadOperand("rax", instr.Arg1)
		t.emit("    cmp rax, 0")
		t.emit("    je %v", instr.Label)
	case OpCopy:
		t.loadOperand("rax", instr.Arg1)
		t.storeResult(instr.Result, "rax")
	case OpInput:
		t.emit("    lea rcx, [rip + fmt_in]")
		t.emit("    lea rdx, [rip + %v]", instr.Result)
		t.emit("    xor eax, eax")
		t.emit("    call scanf")
	case OpOutput:
		t.emitOutput(instr.Arg1)
	default:
		t.emitBinary(instr)
	}
}

func (t *translator) emitOutput(operand string) {
	if isStringLiteral(operand) {
		t.emit("    lea rcx, [rip + fmt_str]")
		t.emit("    lea rdx, [rip + str_%v]", t.str2ID[operand])
	} else {
		t.emit("    lea rcx, [rip + fmt_out]")
		t.loadOperand("rdx", operand)
	}
	t.emit("    xor eax, eax")
	t.emit("    call printf")
}

func (t *translator) emitBinary(instr Instruction) {
	t.loadOperand("rax", instr.Arg1)
	t.loadOperand("rbx", instr.Arg2)
	switch instr.Op {
	case OpAdd:
		t.emit("    add rax, rbx")
	case OpSub:
		t.emit("    sub rax, rbx")
	case OpMul:
		t.emit("    imul rax, rbx")
	case OpDiv:
		t.emit("    cqo")
		t.emit("    idiv rbx")
	case OpMod:
		t.emit("    cqo")
		t.emit("    idiv rbx")
		t.emit("    mov rax, rdx")
	case OpAnd:
		t.emit("    and rax, rbx")
	case OpOr:
		t.emit("    or rax, rbx")
	case OpEq, OpNeq, OpLt, OpGt, OpLeq, OpGeq:
		t.emit("    cmp rax, rbx")
		t.emit("    %v al", setccOf(instr.Op))
		t.emit("    movzx rax, al")
	default:
		return
	}
	t.storeResult(instr.Result, "rax")
}

func setccOf(op OpType) string {
	switch op {
	case OpEq:
		return "sete"
	case OpNeq:
		return "setne"
	case OpLt:
		return "setl"
	case OpGt:
		return "setg"
	case OpLeq:
		return "setle"
	case OpGeq:
		return "setge"
	}
	return ""
}

func isStringLiteral(operand string) bool {
	return len(operand) >= 2 && strings.HasPrefix(operand, "\"") && strings.HasSuffix(operand, "\"")
}

func isNumericLiteral(operand string) bool {
	if operand == "" {
		return false
	}
	for _, r := range operand {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return true
}
