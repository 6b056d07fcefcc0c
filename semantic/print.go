package semantic

import (
	"fmt"
	"io"
)

// PrintSymbolTable writes the declared variables as an aligned listing
// in declaration order.
func PrintSymbolTable(w io.Writer, symbols []*SymbolEntry) {
	nameLen := len("Name")
	typeLen := len("Type")
	for _, sym := range symbols {
		if l := len(sym.Name); l > nameLen {
			nameLen = l
		}
		if l := len(sym.Type); l > typeLen {
			typeLen = l
		}
	}
	fmt.Fprintf(w, "%-*v  %-*v  Scope\n", nameLen, "Name", typeLen, "Type")
	for _, sym := range symbols {
		fmt.Fprintf(w, "%-*v  %-*v  %v\n", nameLen, sym.Name, typeLen, sym.Type, sym.Scope)
	}
}
