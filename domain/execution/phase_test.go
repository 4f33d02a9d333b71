package execution

import "testing"

func TestPhase_IsTerminal(t *testing.T) {
	t.Parallel()

	for _, p := range Sequence() {
		if p.IsTerminal() {
			t.Errorf("%s.IsTerminal() = true", p)
		}
	}
	if !PhaseCommitted.IsTerminal() || !PhaseRolledBack.IsTerminal() {
		t.Error("terminal phases not reported terminal")
	}
}

func TestSequence_Order(t *testing.T) {
	t.Parallel()

	want := []Phase{
		PhaseValidate, PhaseOutgoing, PhaseActivate,
		PhaseIncoming, PhaseExit, PhaseVisibility, PhaseCleanup,
	}
	got := Sequence()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Sequence[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
