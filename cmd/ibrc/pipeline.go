package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ibr-lang/ibrc/grammar"
	"github.com/ibr-lang/ibrc/ibr"
	"github.com/ibr-lang/ibrc/lexer"
)

const (
	firstFollowFileName = "first_follow.csv"
	slrTableFileName    = "slr_table.csv"
)

func newLexer() (*lexer.Lexer, error) {
	l, err := lexer.New(ibr.LexSpec())
	if err != nil {
		return nil, fmt.Errorf("Cannot compile the lexical specification: %w", err)
	}
	return l, nil
}

// buildTable constructs the grammar and its parsing table. When
// dataDir holds both CSV artifacts from a previous run, the table is
// read back instead of regenerated; otherwise it is generated and,
// when dataDir is non-empty, written out.
func buildTable(dataDir string) (*grammar.Grammar, *grammar.ParsingTable, error) {
	g, err := ibr.Grammar()
	if err != nil {
		return nil, nil, err
	}

	if dataDir != "" {
		ptab, err := readTableArtifact(g, filepath.Join(dataDir, slrTableFileName))
		if err == nil {
			return g, ptab, nil
		}
		if !os.IsNotExist(err) {
			return nil, nil, err
		}
	}

	ff, err := grammar.GenFirstFollow(g)
	if err != nil {
		return nil, nil, err
	}
	ptab, err := grammar.GenParsingTable(g, ff)
	if err != nil {
		return nil, nil, err
	}

	if dataDir != "" {
		err = writeArtifacts(dataDir, g, ff, ptab)
		if err != nil {
			return nil, nil, fmt.Errorf("Cannot write the table artifacts: %w", err)
		}
	}

	return g, ptab, nil
}

func readTableArtifact(g *grammar.Grammar, path string) (*grammar.ParsingTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return grammar.ReadParsingTable(f, g)
}

func writeArtifacts(dataDir string, g *grammar.Grammar, ff *grammar.FirstFollow, ptab *grammar.ParsingTable) error {
	err := os.MkdirAll(dataDir, 0755)
	if err != nil {
		return err
	}

	ffFile, err := os.OpenFile(filepath.Join(dataDir, firstFollowFileName), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer ffFile.Close()
	err = grammar.WriteFirstFollow(ffFile, ff)
	if err != nil {
		return err
	}

	tabFile, err := os.OpenFile(filepath.Join(dataDir, slrTableFileName), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer tabFile.Close()
	return grammar.WriteParsingTable(tabFile, ptab, g)
}
