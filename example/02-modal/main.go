// Package main demonstrates blocking states and occlusion-driven
// dynamics. A modal dialog blocks all other transitions and hides the
// page beneath it; the pathfinder routes through a generated reveal
// transition to get back.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/felixgeelhaar/multistate/application"
	"github.com/felixgeelhaar/multistate/domain/model"
	"github.com/felixgeelhaar/multistate/domain/occlusion"
	"github.com/felixgeelhaar/multistate/domain/state"
	"github.com/felixgeelhaar/multistate/domain/transition"
)

func main() {
	m := model.New()
	for _, s := range []state.State{
		{ID: "page", Name: "Main Page"},
		{ID: "settings", Name: "Settings Page"},
		{ID: "dialog", Name: "Confirm Dialog", Blocking: true},
	} {
		if err := m.AddState(s); err != nil {
			log.Fatal(err)
		}
	}

	// The dialog fully hides the page while both are active.
	if err := m.AddOcclusion(occlusion.Relation{
		Covering:    "dialog",
		Hidden:      "page",
		Probability: 1.0,
		Class:       occlusion.ClassModal,
	}); err != nil {
		log.Fatal(err)
	}

	openDialog := transition.New("open_dialog", "Open Dialog",
		state.NewSet("page"), state.NewSet("dialog"), nil)
	closeDialog := transition.New("close_dialog", "Close Dialog",
		state.NewSet("dialog"), nil, state.NewSet("dialog"))
	toSettings := transition.New("to_settings", "Go To Settings",
		state.NewSet("page"), state.NewSet("settings"), state.NewSet("page"))
	for _, t := range []transition.Transition{openDialog, closeDialog, toSettings} {
		if err := m.AddTransition(t); err != nil {
			log.Fatal(err)
		}
	}

	mgr, err := application.NewManager(m)
	if err != nil {
		log.Fatal(err)
	}
	if err := mgr.Seed("page"); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	// Open the dialog. The page stays active but is now occluded.
	if result, err := mgr.Execute(ctx, "open_dialog"); err != nil || !result.Committed {
		log.Fatalf("open_dialog: %v", err)
	}
	fmt.Printf("occluded while dialog is open: %v\n", mgr.Occluded().Sorted())

	// The dialog blocks activating anything else.
	result, err := mgr.Execute(ctx, "to_settings")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("to_settings with dialog open: committed=%v (%v)\n", result.Committed, result.Err)

	// The pathfinder knows the way out: close the dialog first.
	run, err := mgr.Navigate(ctx, "settings")
	if err != nil {
		log.Fatal(err)
	}
	for i, step := range run.Results {
		fmt.Printf("  step %d: %s\n", i+1, step.TransitionID)
	}
	fmt.Printf("active states: %v\n", mgr.ActiveStates().Sorted())
}
