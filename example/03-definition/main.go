// Package main demonstrates loading a model from a YAML definition and
// wiring history and reliability tracking into the manager.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/felixgeelhaar/multistate/application"
	"github.com/felixgeelhaar/multistate/domain/history"
	"github.com/felixgeelhaar/multistate/domain/reliability"
	infraconfig "github.com/felixgeelhaar/multistate/infrastructure/config"
	"github.com/felixgeelhaar/multistate/infrastructure/storage/memory"
)

func main() {
	def, err := infraconfig.NewLoader().LoadFile("model.yaml")
	if err != nil {
		log.Fatal(err)
	}

	store := memory.NewHistoryStore()
	tracker := reliability.NewTracker()

	mgr, err := infraconfig.BuildManager(def,
		application.WithHistory(store),
		application.WithReliability(tracker),
	)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	// Navigate from the login page to the search panel. The workspace
	// group activates as a unit on the way.
	run, err := mgr.Navigate(ctx, "search")
	if err != nil {
		log.Fatal(err)
	}
	for i, step := range run.Results {
		fmt.Printf("step %d: %s committed=%v\n", i+1, step.TransitionID, step.Committed)
	}

	// Every execution left a history record.
	count, err := store.Count(ctx, history.Filter{})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("history records: %d\n", count)

	// And fed the reliability tracker.
	summary := tracker.Summary()
	fmt.Printf("executions: %d, success rate: %.0f%%\n",
		summary.Attempts, summary.SuccessRate*100)
}
