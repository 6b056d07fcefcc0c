package driver

import (
	"strings"
	"testing"
)

func TestPrintTree(t *testing.T) {
	decl := &Node{
		KindName: "DECLARACAO",
		Children: []*Node{
			{
				KindName: "TIPO_DE_VARIAVEL",
				Children: []*Node{
					{KindName: "tralalero", Text: "tralalero", Line: 1},
				},
			},
			{KindName: "id", Text: "x", Line: 1},
			{KindName: ";", Text: ";", Line: 1},
		},
	}

	var b strings.Builder
	PrintTree(&b, decl)

	want := `DECLARACAO
├─ TIPO_DE_VARIAVEL
│  └─ tralalero "tralalero"
├─ id "x"
└─ ; ";"
`
	if b.String() != want {
		t.Fatalf("unexpected tree rendering; want:\n%v\ngot:\n%v", want, b.String())
	}
}

func TestLeaves(t *testing.T) {
	tree := &Tree{
		Root: &Node{
			KindName: "EXPRESSAO",
			Children: []*Node{
				{
					KindName: "EXPRESSAO",
					Children: []*Node{
						{KindName: "TERMO", Children: []*Node{{KindName: "id", Text: "x"}}},
					},
				},
				{
					KindName: "OPERADOR",
					Children: []*Node{
						{KindName: "OPERADOR_ARITMETICO", Children: []*Node{{KindName: "+", Text: "+"}}},
					},
				},
				{KindName: "TERMO", Children: []*Node{{KindName: "valor_inteiro", Text: "5"}}},
			},
		},
	}

	var texts []string
	for _, leaf := range tree.Leaves() {
		texts = append(texts, leaf.Text)
	}
	want := []string{"x", "+", "5"}
	if len(texts) != len(want) {
		t.Fatalf("unexpected leaf count; want: %v, got: %v", want, texts)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Fatalf("unexpected leaves; want: %v, got: %v", want, texts)
		}
	}
	if (*Tree)(nil).Leaves() != nil {
		t.Fatal("a nil tree must have no leaves")
	}
}
