// Package lib provides a Go SDK for tracking dashboard long running operations programmatically.
//
// This package allows applications to start, follow and cancel operations (reports,
// analysis and scans) without shelling out to the scanboard CLI binary. Every operation
// kind has its own single-flight lane: while an operation of a kind is running, starting
// another one of the same kind is rejected.
//
// # Quick Start
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	unsubscribe := client.Subscribe(func(ev lib.Event) {
//	    fmt.Printf("%s %s %d%%\n", ev.Operation.Title, ev.Type, ev.Operation.Progress)
//	})
//	defer unsubscribe()
//
//	id, err := client.Start(ctx, lib.KindAnalysis)
//	op, err := client.Wait(ctx, id)
//
// # Progress
//
// Operation progress is simulated: a tick timer advances the progress by a random
// increment and a finalize timer completes the operation after a fixed time, whatever the
// progress is. The timings of every kind can be tuned with [Config].Profiles.
//
// # History
//
// Every finished operation (completed, cancelled or failed) is recorded exactly once on
// the history, most recent first:
//
//	entries, _ := client.History(ctx, lib.HistoryOpts{Limit: 10})
//
// By default the history is persisted on a SQLite database, set [Config].InMemory to
// keep it in memory only.
//
// # Error Handling
//
// All methods return errors that can be inspected with [errors.Is]:
//
//   - [ErrNotFound]: Operation does not exist.
//   - [ErrRejected]: An operation of the same kind is already running.
//   - [ErrInvalidKind]: The kind is not part of the catalog.
//   - [ErrNotValid]: Invalid input or operation (e.g. cancelling a finished operation).
//
// # Thread Safety
//
// A [Client] is safe for concurrent use from multiple goroutines. Subscribers and
// notifiers are called synchronously while the operation state is locked, so they must
// not call the client back; hand the event off to another goroutine instead.
package lib
