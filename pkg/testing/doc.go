// Package testing provides deterministic time and frame helpers for testing
// margin animations.
//
// # Animation Testing
//
// Control time for deterministic animation tests:
//
//	pump := drifttest.NewFramePump()
//	ctrl := margins.NewController(store, margins.Options{
//	    Clock:     pump.Clock,
//	    Scheduler: pump.Scheduler,
//	})
//	ctrl.ShowMargins(false)
//	if err := pump.PumpAndSettle(time.Second); err != nil {
//	    t.Fatal(err)
//	}
//
// # Frame Snapshots
//
// Record every commit a store receives and compare it with a golden file:
//
//	rec := drifttest.RecordFrames(store)
//	ctrl.ShowMargins(true)
//	rec.Snapshot().MatchesFile(t, "testdata/show.json")
//
// Set MARGINS_UPDATE_SNAPSHOTS=1 to rewrite golden files.
package testing
