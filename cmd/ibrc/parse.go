package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/ibr-lang/ibrc/driver"
	ierr "github.com/ibr-lang/ibrc/error"
	"github.com/ibr-lang/ibrc/ibr"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	dataDir  *string
	onlyTree *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse <source file path>",
		Short:   "Parse an IBR source file and print its derivation tree",
		Example: `  ibrc parse hello.ibr`,
		Args:    cobra.ExactArgs(1),
		RunE:    runParse,
	}
	parseFlags.dataDir = cmd.Flags().StringP("data", "d", "", "directory holding the CSV table artifacts (default: regenerate)")
	parseFlags.onlyTree = cmd.Flags().Bool("only-tree", false, "print only the derivation tree, without syntax error details")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) (retErr error) {
	defer func() {
		v := recover()
		if v != nil {
			err, ok := v.(error)
			if !ok {
				retErr = fmt.Errorf("an unexpected error occurred: %v", v)
				fmt.Fprintf(os.Stderr, "%v:\n%v", retErr, string(debug.Stack()))
				return
			}
			retErr = err
			fmt.Fprintf(os.Stderr, "%v:\n%v", retErr, string(debug.Stack()))
		}
	}()

	res, err := parseSource(args[0], *parseFlags.dataDir)
	if err != nil && res == nil {
		return err
	}

	if !*parseFlags.onlyTree {
		for _, synErr := range res.SyntaxErrors {
			srcErr := &ierr.SourceError{
				Cause:      errors.New(synErr.String()),
				FilePath:   args[0],
				SourceName: args[0],
				Row:        synErr.Line,
			}
			fmt.Fprintf(os.Stderr, "%v\n", srcErr)
		}
	}

	if res.Tree != nil {
		driver.PrintTree(os.Stdout, res.Tree.Root)
	}

	if err != nil {
		return err
	}
	if !res.Accepted {
		return fmt.Errorf("%v syntax errors", len(res.SyntaxErrors))
	}
	return nil
}

// parseSource runs the lexer and the parser over one source file. A
// non-nil Result may accompany an error when the parser aborted after
// building a partial tree.
func parseSource(path, dataDir string) (*driver.Result, error) {
	l, err := newLexer()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the source file %s: %w", path, err)
	}
	defer f.Close()

	toks, err := l.Lex(f)
	if err != nil {
		return nil, err
	}

	g, ptab, err := buildTable(dataDir)
	if err != nil {
		return nil, err
	}

	p, err := driver.NewParser(g, ptab,
		driver.SkipKinds(ibr.SkipKinds()...),
		driver.LiteralKinds(ibr.LiteralKinds()...))
	if err != nil {
		return nil, err
	}

	return p.Parse(toks)
}
