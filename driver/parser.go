// Package driver runs the table-driven parse loop: it consumes a
// token sequence against a parsing table and produces a derivation
// tree, recovering from syntax errors by skipping tokens.
package driver

import (
	"errors"
	"fmt"

	"github.com/ibr-lang/ibrc/grammar"
	"github.com/ibr-lang/ibrc/lexer"
)

var (
	// ErrInconsistentTable reports a reduction whose GOTO cell is
	// undefined. The table itself is broken; the parse never guesses.
	ErrInconsistentTable = errors.New("parsing table is internally inconsistent")

	// ErrRecoveryLoop reports that skipping tokens kept producing the
	// identical (state, token) error without making progress.
	ErrRecoveryLoop = errors.New("recovery loop detected")

	// ErrStepLimit reports that the parse exceeded its total step cap.
	ErrStepLimit = errors.New("step limit exceeded")
)

const (
	defaultStepLimit        = 1000
	defaultErrorStreakLimit = 1000
)

type SyntaxError struct {
	Line  int
	Token string
}

func (e *SyntaxError) String() string {
	return fmt.Sprintf("line %v: unexpected token %#v", e.Line, e.Token)
}

type ParserOption func(p *Parser) error

// StepLimit caps the total number of parse steps.
func StepLimit(n int) ParserOption {
	return func(p *Parser) error {
		if n <= 0 {
			return fmt.Errorf("the step limit must be positive; passed: %v", n)
		}
		p.stepLimit = n
		return nil
	}
}

// ErrorStreakLimit caps how often the identical (state, token) error
// may repeat on consecutive steps before the parse aborts.
func ErrorStreakLimit(n int) ParserOption {
	return func(p *Parser) error {
		if n <= 0 {
			return fmt.Errorf("the error-streak limit must be positive; passed: %v", n)
		}
		p.errorStreakLimit = n
		return nil
	}
}

// SkipKinds declares the token kinds the parser discards before
// consulting the table.
func SkipKinds(kinds ...string) ParserOption {
	return func(p *Parser) error {
		for _, kind := range kinds {
			p.skipKinds[kind] = struct{}{}
		}
		return nil
	}
}

// LiteralKinds declares the token kinds that are matched by their kind
// name instead of their own text.
func LiteralKinds(kinds ...string) ParserOption {
	return func(p *Parser) error {
		for _, kind := range kinds {
			p.literalKinds[kind] = struct{}{}
		}
		return nil
	}
}

// Parser is immutable once constructed and may run any number of
// parses, concurrently included; every call to Parse owns its stacks
// and its tree.
type Parser struct {
	g                *grammar.Grammar
	ptab             *grammar.ParsingTable
	skipKinds        map[string]struct{}
	literalKinds     map[string]struct{}
	stepLimit        int
	errorStreakLimit int
}

func NewParser(g *grammar.Grammar, ptab *grammar.ParsingTable, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		g:                g,
		ptab:             ptab,
		skipKinds:        map[string]struct{}{},
		literalKinds:     map[string]struct{}{},
		stepLimit:        defaultStepLimit,
		errorStreakLimit: defaultErrorStreakLimit,
	}
	for _, opt := range opts {
		err := opt(p)
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Result is the outcome of a parse. On acceptance Tree holds the full
// derivation; on an aborted parse it holds whatever subtree had
// already been reduced to the start symbol, if any. SyntaxErrors lists
// the recovered-from errors in source order, possibly empty.
type Result struct {
	Accepted     bool
	Tree         *Tree
	SyntaxErrors []*SyntaxError
}

// stackItem is one symbol/state pair of the parse stack. The state
// drives every table lookup; the symbol documents what was pushed.
type stackItem struct {
	state int
	sym   string
}

type parseRun struct {
	p         *Parser
	stack     []stackItem
	nodeStack []*Node
	synErrs   []*SyntaxError
	root      *Node
}

// Parse runs the token sequence against the table. The only ways out
// of the loop are the accept action and the two abort conditions; both
// aborts return the partial result alongside a sentinel error.
func (p *Parser) Parse(toks []lexer.Token) (*Result, error) {
	queue := newTokenQueue(toks, p.skipKinds, p.literalKinds)
	r := &parseRun{
		p: p,
		stack: []stackItem{
			{state: p.ptab.InitialState(), sym: endMarkerName},
		},
	}

	pos := 0
	steps := 0
	streak := 0
	var lastErrState int
	var lastErrToken string

	for {
		steps++
		if steps > p.stepLimit {
			return r.result(false), fmt.Errorf("%w: %v steps", ErrStepLimit, p.stepLimit)
		}

		tok := queue[pos]
		state := r.top().state
		act, nextState, prodNum := p.lookupAction(state, tok)
		switch act {
		case grammar.ActionTypeShift:
			r.shift(nextState, tok)
			if pos < len(queue)-1 {
				pos++
			}
		case grammar.ActionTypeReduce:
			err := r.reduce(prodNum)
			if err != nil {
				return r.result(false), err
			}
		case grammar.ActionTypeAccept:
			r.accept()
			return r.result(true), nil
		default:
			r.synErrs = append(r.synErrs, &SyntaxError{
				Line:  tok.line,
				Token: tok.lexeme,
			})
			if state == lastErrState && tok.name == lastErrToken {
				streak++
			} else {
				streak = 1
				lastErrState = state
				lastErrToken = tok.name
			}
			if streak >= p.errorStreakLimit {
				return r.result(false), fmt.Errorf("%w: state %v, token %#v", ErrRecoveryLoop, state, tok.lexeme)
			}
			// Token-skip recovery: drop the offending token and retry
			// with the stack unchanged. The end marker is never
			// dropped, so a parse stuck there runs into the streak
			// cap.
			if pos < len(queue)-1 {
				pos++
			}
		}
	}
}

func (p *Parser) lookupAction(state int, tok terminalToken) (grammar.ActionType, int, int) {
	term, ok := p.g.TerminalNum(tok.name)
	if !ok {
		// A token that is no terminal of the grammar (an invalid
		// token, say) cannot have a table column; it takes the error
		// path.
		return grammar.ActionTypeError, 0, 0
	}
	return p.ptab.Action(state, term)
}

func (r *parseRun) top() stackItem {
	return r.stack[len(r.stack)-1]
}

func (r *parseRun) shift(nextState int, tok terminalToken) {
	r.stack = append(r.stack, stackItem{state: nextState, sym: tok.name})
	r.nodeStack = append(r.nodeStack, &Node{
		KindName: tok.name,
		Text:     tok.lexeme,
		Line:     tok.line,
	})
}

func (r *parseRun) reduce(prodNum int) error {
	lhsText, lhsNum, rhsLen, ok := r.p.g.ProductionInfo(prodNum)
	if !ok {
		return fmt.Errorf("%w: reduce action refers to an unknown production %v", ErrInconsistentTable, prodNum)
	}

	r.stack = r.stack[:len(r.stack)-rhsLen]
	children := make([]*Node, rhsLen)
	copy(children, r.nodeStack[len(r.nodeStack)-rhsLen:])
	r.nodeStack = r.nodeStack[:len(r.nodeStack)-rhsLen]

	node := &Node{
		KindName: lhsText,
		Children: children,
	}
	for _, child := range children {
		child.parent = node
	}

	ty, nextState := r.p.ptab.GoTo(r.top().state, lhsNum)
	if ty != grammar.GoToTypeRegistered {
		return fmt.Errorf("%w: GOTO is undefined; state: %v, non-terminal: %v", ErrInconsistentTable, r.top().state, lhsText)
	}
	r.stack = append(r.stack, stackItem{state: nextState, sym: lhsText})
	r.nodeStack = append(r.nodeStack, node)

	if lhsText == r.p.g.StartText() {
		r.root = node
	}

	return nil
}

func (r *parseRun) accept() {
	if len(r.nodeStack) > 0 {
		r.root = r.nodeStack[len(r.nodeStack)-1]
	}
}

func (r *parseRun) result(accepted bool) *Result {
	res := &Result{
		Accepted:     accepted,
		SyntaxErrors: r.synErrs,
	}
	if r.root != nil {
		res.Tree = &Tree{Root: r.root}
	}
	return res
}
