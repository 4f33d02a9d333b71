// Package main demonstrates the absolute minimum working model.
// A login page transitions into a workspace whose states activate
// together as a group.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/felixgeelhaar/multistate/application"
	"github.com/felixgeelhaar/multistate/domain/model"
	"github.com/felixgeelhaar/multistate/domain/state"
	"github.com/felixgeelhaar/multistate/domain/transition"
)

func main() {
	// 1. Declare the states. The three workspace states share a group,
	// so any transition activating one must activate all of them.
	m := model.New()
	for _, s := range []state.State{
		{ID: "login", Name: "Login Page"},
		{ID: "search", Name: "Search Panel", Group: "workspace"},
		{ID: "properties", Name: "Properties Panel", Group: "workspace"},
		{ID: "navigation", Name: "Navigation Bar", Group: "workspace"},
	} {
		if err := m.AddState(s); err != nil {
			log.Fatal(err)
		}
	}

	// 2. One transition from login into the full workspace.
	enter := transition.New("enter_workspace", "Enter Workspace",
		state.NewSet("login"),
		state.NewSet("search", "properties", "navigation"),
		state.NewSet("login"),
	)
	if err := m.AddTransition(enter); err != nil {
		log.Fatal(err)
	}

	// 3. Build the manager and seed the starting configuration.
	mgr, err := application.NewManager(m)
	if err != nil {
		log.Fatal(err)
	}
	if err := mgr.Seed("login"); err != nil {
		log.Fatal(err)
	}

	// 4. Execute the transition through the full phase protocol.
	result, err := mgr.Execute(context.Background(), "enter_workspace")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("committed: %v\n", result.Committed)
	fmt.Printf("active states: %v\n", mgr.ActiveStates().Sorted())
}
