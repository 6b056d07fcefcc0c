package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "lex <source file path>",
		Short:   "Tokenize an IBR source file",
		Example: `  ibrc lex hello.ibr`,
		Args:    cobra.ExactArgs(1),
		RunE:    runLex,
	}
	rootCmd.AddCommand(cmd)
}

func runLex(cmd *cobra.Command, args []string) error {
	l, err := newLexer()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("Cannot open the source file %s: %w", args[0], err)
	}
	defer f.Close()

	toks, err := l.Lex(f)
	if err != nil {
		return err
	}

	for _, tok := range toks {
		if tok.Invalid {
			fmt.Fprintf(os.Stdout, "%v: <invalid> %#v\n", tok.Row, tok.Lexeme)
			continue
		}
		fmt.Fprintf(os.Stdout, "%v: %v %#v\n", tok.Row, tok.Kind, tok.Lexeme)
	}

	return nil
}
