package transition

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/felixgeelhaar/multistate/domain/state"
)

func TestSpec_RoundTrip(t *testing.T) {
	t.Parallel()

	tr := New("open_search", "Open Search",
		state.NewSet("workspace"), state.NewSet("search"), nil)
	tr.Cost = 2.5
	tr.StaysVisible = VisibilityTrue

	spec := ToSpec(tr, nil)
	back, err := spec.Transition()
	if err != nil {
		t.Fatalf("Transition() error: %v", err)
	}
	if !back.Equal(tr) {
		t.Errorf("round trip changed transition: got %+v, want %+v", back, tr)
	}
}

func TestSpec_ExplicitZeroCostSurvives(t *testing.T) {
	t.Parallel()

	tr := New("free", "Free", nil, state.NewSet("a"), nil)
	tr.Cost = 0

	data, err := json.Marshal(ToSpec(tr, nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var spec Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	back, err := spec.Transition()
	if err != nil {
		t.Fatalf("Transition() error: %v", err)
	}
	if back.Cost != 0 {
		t.Errorf("Cost = %v, want 0", back.Cost)
	}
}

func TestSpec_MissingCostDefaults(t *testing.T) {
	t.Parallel()

	var spec Spec
	if err := json.Unmarshal([]byte(`{"id":"t","activate":["a"]}`), &spec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	tr, err := spec.Transition()
	if err != nil {
		t.Fatalf("Transition() error: %v", err)
	}
	if tr.Cost != DefaultCost {
		t.Errorf("Cost = %v, want %v", tr.Cost, DefaultCost)
	}
	if tr.StaysVisible != VisibilityNone {
		t.Errorf("StaysVisible = %v, want NONE", tr.StaysVisible)
	}
	if tr.Name != "t" {
		t.Errorf("Name = %q, want id fallback", tr.Name)
	}
}

func TestSpec_InvalidVisibility(t *testing.T) {
	t.Parallel()

	spec := Spec{ID: "t", Activate: []state.ID{"a"}, StaysVisible: "SOMETIMES"}
	if _, err := spec.Transition(); !errors.Is(err, ErrInvalidVisibility) {
		t.Errorf("err = %v, want ErrInvalidVisibility", err)
	}
}

func TestSpec_ValidatesDecodedTransition(t *testing.T) {
	t.Parallel()

	spec := Spec{ID: "t", Activate: []state.ID{"a"}, Exit: []state.ID{"a"}}
	if _, err := spec.Transition(); !errors.Is(err, ErrActivateExitOverlap) {
		t.Errorf("err = %v, want ErrActivateExitOverlap", err)
	}
}

func TestToSpec_GroupMembership(t *testing.T) {
	t.Parallel()

	tr := New("t", "T", state.NewSet("login"), state.NewSet("nav", "toolbar"), state.NewSet("login"))
	groupOf := func(id state.ID) string {
		if id == "nav" || id == "toolbar" {
			return "workspace"
		}
		return ""
	}

	spec := ToSpec(tr, groupOf)
	if spec.Groups["nav"] != "workspace" || spec.Groups["toolbar"] != "workspace" {
		t.Errorf("Groups = %v, want nav and toolbar in workspace", spec.Groups)
	}
	if _, ok := spec.Groups["login"]; ok {
		t.Error("ungrouped state should not appear in Groups")
	}
}
