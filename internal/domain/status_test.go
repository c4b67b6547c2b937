package domain

import "testing"

func TestCanTransitionForwardChain(t *testing.T) {
	chain := []OrderStatus{
		StatusPending, StatusConfirmed, StatusReceived, StatusPreparing,
		StatusReady, StatusServing, StatusCompleted,
	}
	for i := 0; i < len(chain)-1; i++ {
		if !CanTransition(chain[i], chain[i+1]) {
			t.Errorf("expected %s -> %s to be allowed", chain[i], chain[i+1])
		}
	}
}

func TestCanTransitionRejectsSkipsAndBackwardMoves(t *testing.T) {
	cases := []struct{ from, to OrderStatus }{
		{StatusPending, StatusCompleted}, // skipping stages
		{StatusPending, StatusReady},
		{StatusConfirmed, StatusPending}, // backward
		{StatusServing, StatusPreparing},
	}
	for _, c := range cases {
		if CanTransition(c.from, c.to) {
			t.Errorf("expected %s -> %s to be denied", c.from, c.to)
		}
	}
}

func TestCancelledReachableFromAnyNonTerminal(t *testing.T) {
	for _, st := range AllStatuses {
		got := CanTransition(st, StatusCancelled)
		want := !st.Terminal() || st == StatusCancelled // same-status no-op stays allowed
		if got != want {
			t.Errorf("%s -> cancelled: got %v, want %v", st, got, want)
		}
	}
}

func TestTerminalStatesAreFinal(t *testing.T) {
	for _, terminal := range []OrderStatus{StatusCompleted, StatusCancelled} {
		for _, to := range AllStatuses {
			if to == terminal {
				continue
			}
			if CanTransition(terminal, to) {
				t.Errorf("terminal %s must not transition to %s", terminal, to)
			}
		}
	}
}

func TestParseStatus(t *testing.T) {
	if _, err := ParseStatus("preparing"); err != nil {
		t.Errorf("preparing should parse: %v", err)
	}
	if _, err := ParseStatus("cooking"); err == nil {
		t.Error("unknown status must not parse")
	}
}
