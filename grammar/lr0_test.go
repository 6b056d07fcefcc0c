package grammar

import (
	"testing"
)

func genExprAutomaton(t *testing.T) (*Grammar, *lr0Automaton) {
	t.Helper()
	g, err := Augment(exprGrammar(t))
	if err != nil {
		t.Fatal(err)
	}
	automaton, err := genLR0Automaton(g.productionSet, g.augStartSym)
	if err != nil {
		t.Fatal(err)
	}
	return g, automaton
}

func TestGenLR0Automaton(t *testing.T) {
	_, automaton := genExprAutomaton(t)

	// The canonical collection of the expression grammar has 12
	// states.
	states := automaton.statesByNum()
	if len(states) != 12 {
		t.Fatalf("unexpected state count; want: 12, got: %v", len(states))
	}
	initial, ok := automaton.states[automaton.initialState]
	if !ok {
		t.Fatal("the initial state was not registered")
	}
	if initial.num != stateNumInitial {
		t.Fatalf("the initial state must be state %v, got: %v", stateNumInitial, initial.num)
	}
	for i, state := range states {
		if state.num != stateNum(i) {
			t.Fatalf("statesByNum is out of order at %v: %v", i, state.num)
		}
	}

	// Every transition leads to a registered state, and no transition
	// re-enters the initial state.
	kernelIDs := map[kernelID]struct{}{}
	for _, state := range states {
		kernelIDs[state.id] = struct{}{}
	}
	for _, state := range states {
		for sym, nextID := range state.next {
			if _, ok := kernelIDs[nextID]; !ok {
				t.Fatalf("state %v has a transition on %v to an unregistered kernel", state.num, sym)
			}
			if nextID == automaton.initialState {
				t.Fatalf("state %v re-enters the initial state", state.num)
			}
		}
	}
}

func TestGenLR0Automaton_Deterministic(t *testing.T) {
	_, a1 := genExprAutomaton(t)
	_, a2 := genExprAutomaton(t)

	s1 := a1.statesByNum()
	s2 := a2.statesByNum()
	if len(s1) != len(s2) {
		t.Fatalf("the state counts differ between two runs: %v and %v", len(s1), len(s2))
	}
	for i := range s1 {
		if s1[i].id != s2[i].id {
			t.Fatalf("state %v has different kernels between two runs", i)
		}
	}
}

func TestGenLR0Automaton_Reducible(t *testing.T) {
	g, automaton := genExprAutomaton(t)

	// Exactly one state holds the reducible item F → id·.
	idProd, ok := g.productionSet.findByNum(5)
	if !ok {
		t.Fatal("production 5 was not found")
	}
	var holders []*lr0State
	for _, state := range automaton.statesByNum() {
		if _, ok := state.reducible[idProd.id]; ok {
			holders = append(holders, state)
		}
	}
	if len(holders) != 1 {
		t.Fatalf("unexpected number of states reducing by F → id; want: 1, got: %v", len(holders))
	}
	if len(holders[0].next) != 0 {
		t.Fatalf("the state reducing by F → id must have no transitions, got: %v", len(holders[0].next))
	}
}
