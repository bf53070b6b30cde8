package lib_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/slok/scanboard/pkg/lib"
)

// This example shows how to run an operation and wait until it finishes.
func Example_run() {
	ctx := context.Background()

	client, err := lib.New(ctx, lib.Config{
		InMemory: true,
		Profiles: map[lib.Kind]lib.Profile{
			lib.KindRepositoryScan: {FinalizeAfter: 10 * time.Millisecond},
		},
	})
	if err != nil {
		panic(err)
	}
	defer client.Close()

	id, err := client.Start(ctx, lib.KindRepositoryScan)
	if err != nil {
		panic(err)
	}

	// Only one operation per kind can run at the same time.
	_, err = client.Start(ctx, lib.KindRepositoryScan)
	fmt.Println("Rejected:", errors.Is(err, lib.ErrRejected))

	op, err := client.Wait(ctx, id)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%s %s (%d%%)\n", op.Title, op.Status, op.Progress)

	// Output:
	// Rejected: true
	// Repository Scan completed (100%)
}

// This example shows how to cancel a running operation.
func Example_cancel() {
	ctx := context.Background()

	client, err := lib.New(ctx, lib.Config{InMemory: true})
	if err != nil {
		panic(err)
	}
	defer client.Close()

	id, err := client.Start(ctx, lib.KindDependency)
	if err != nil {
		panic(err)
	}

	if err := client.Cancel(ctx, id); err != nil {
		panic(err)
	}

	entries, err := client.History(ctx, lib.HistoryOpts{})
	if err != nil {
		panic(err)
	}
	fmt.Printf("%s %s\n", entries[0].Title, entries[0].Status)

	// Output:
	// Dependency Audit cancelled
}
