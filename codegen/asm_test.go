package codegen

import (
	"strings"
	"testing"
)

func asmOf(t *testing.T, instrs []Instruction) []string {
	t.Helper()
	lines := Translate(instrs)
	if len(lines) == 0 {
		t.Fatal("no assembly was emitted")
	}
	return lines
}

func requireLines(t *testing.T, lines []string, wants ...string) {
	t.Helper()
	pos := 0
	for _, want := range wants {
		found := false
		for ; pos < len(lines); pos++ {
			if strings.TrimSpace(lines[pos]) == want {
				found = true
				pos++
				break
			}
		}
		if !found {
			t.Fatalf("the line %#v was not found in order in:\n%v", want, strings.Join(lines, "\n"))
		}
	}
}

func TestTranslate_Layout(t *testing.T) {
	lines := asmOf(t, []Instruction{
		{Op: OpCopy, Arg1: "5", Result: "x"},
	})

	requireLines(t, lines,
		".intel_syntax noprefix",
		".global main",
		".extern printf",
		".extern scanf",
		".data",
		`fmt_in: .asciz "%ld"`,
		`fmt_out: .asciz "%ld\n"`,
		`fmt_str: .asciz "%s\n"`,
		"x: .quad 0",
		".text",
		"main:",
		"push rbp",
		"mov rbp, rsp",
		"sub rsp, 32",
		"mov rax, 5",
		"mov qword ptr [rip + x], rax",
		"mov rsp, rbp",
		"pop rbp",
		"mov eax, 0",
		"ret",
	)
}

func TestTranslate_Slots(t *testing.T) {
	lines := asmOf(t, []Instruction{
		{Op: OpAdd, Arg1: "b", Arg2: "a", Result: "t1"},
		{Op: OpCopy, Arg1: "t1", Result: "b"},
	})

	// Slots appear once each, in ascending name order.
	requireLines(t, lines,
		"a: .quad 0",
		"b: .quad 0",
		"t1: .quad 0",
	)
	count := 0
	for _, line := range lines {
		if strings.HasPrefix(line, "b:") {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("the slot b must be declared exactly once, got: %v", count)
	}
}

func TestTranslate_Arithmetic(t *testing.T) {
	tests := []struct {
		caption string
		op      OpType
		want    []string
	}{
		{
			caption: "addition",
			op:      OpAdd,
			want:    []string{"add rax, rbx"},
		},
		{
			caption: "division sign-extends before idiv",
			op:      OpDiv,
			want:    []string{"cqo", "idiv rbx"},
		},
		{
			caption: "modulo takes the remainder from rdx",
			op:      OpMod,
			want:    []string{"cqo", "idiv rbx", "mov rax, rdx"},
		},
		{
			caption: "a comparison materializes a flag",
			op:      OpLt,
			want:    []string{"cmp rax, rbx", "setl al", "movzx rax, al"},
		},
		{
			caption: "logical and over flag values",
			op:      OpAnd,
			want:    []string{"and rax, rbx"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			lines := asmOf(t, []Instruction{
				{Op: tt.op, Arg1: "a", Arg2: "b", Result: "t1"},
			})
			wants := append([]string{
				"mov rax, qword ptr [rip + a]",
				"mov rbx, qword ptr [rip + b]",
			}, tt.want...)
			wants = append(wants, "mov qword ptr [rip + t1], rax")
			requireLines(t, lines, wants...)
		})
	}
}

func TestTranslate_ControlFlow(t *testing.T) {
	lines := asmOf(t, []Instruction{
		{Op: OpLabel, Label: "L1"},
		{Op: OpIfz, Arg1: "t1", Label: "L2"},
		{Op: OpGoto, Label: "L1"},
		{Op: OpLabel, Label: "L2"},
	})

	requireLines(t, lines,
		"L1:",
		"mov rax, qword ptr [rip + t1]",
		"cmp rax, 0",
		"je L2",
		"jmp L1",
		"L2:",
	)
}

func TestTranslate_IO(t *testing.T) {
	lines := asmOf(t, []Instruction{
		{Op: OpInput, Result: "t1"},
		{Op: OpCopy, Arg1: "t1", Result: "x"},
		{Op: OpOutput, Arg1: "x"},
		{Op: OpOutput, Arg1: `"oi"`},
		{Op: OpOutput, Arg1: `"oi"`},
	})

	requireLines(t, lines,
		`str_0: .asciz "oi"`,
		"lea rcx, [rip + fmt_in]",
		"lea rdx, [rip + t1]",
		"xor eax, eax",
		"call scanf",
		"lea rcx, [rip + fmt_out]",
		"mov rdx, qword ptr [rip + x]",
		"xor eax, eax",
		"call printf",
		"lea rcx, [rip + fmt_str]",
		"lea rdx, [rip + str_0]",
	)

	// The repeated literal is interned once.
	count := 0
	for _, line := range lines {
		if strings.HasPrefix(line, "str_") {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("the string literal must be interned once, got: %v declarations", count)
	}
}

func TestTranslate_RealLiteralTruncates(t *testing.T) {
	lines := asmOf(t, []Instruction{
		{Op: OpCopy, Arg1: "3.9", Result: "x"},
	})
	requireLines(t, lines,
		"mov rax, 3",
		"mov qword ptr [rip + x], rax",
	)
}
