package testing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-drift/margins/pkg/graphics"
	"github.com/go-drift/margins/pkg/layout"
	"github.com/go-drift/margins/pkg/viewport"
)

// fakeT records failures instead of failing the test.
type fakeT struct {
	fatals []string
	errors []string
}

func (f *fakeT) Helper()                           {}
func (f *fakeT) Name() string                      { return "TestFake" }
func (f *fakeT) Fatalf(format string, args ...any) { f.fatals = append(f.fatals, format) }
func (f *fakeT) Errorf(format string, args ...any) { f.errors = append(f.errors, format) }

func newStore() *viewport.Store {
	return viewport.NewStore(viewport.NewMetrics(
		graphics.RectFromLTWH(0, 0, 400, 2000),
		graphics.RectFromLTWH(0, 100, 400, 800),
	))
}

func TestFrameRecorder_Records(t *testing.T) {
	store := newStore()
	rec := RecordFrames(store)

	m := store.ViewportMetrics()
	store.ForceViewportMetrics(m.WithMargins(layout.EdgeInsetsLTRB(0, 10.004, 0, 0)), false, false)
	store.ForceViewportMetrics(m.TranslatedBy(0, 5), true, true)
	rec.Stop()
	store.ForceViewportMetrics(m, false, false)

	snap := rec.Snapshot()
	if len(snap.Frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(snap.Frames))
	}
	first, second := snap.Frames[0], snap.Frames[1]
	if first.Version != 1 || first.Margins != [4]float64{0, 10, 0, 0} || first.ForceRedraw {
		t.Errorf("first frame = %+v", first)
	}
	if second.Viewport != [4]float64{0, 105, 400, 905} || !second.ForceRedraw || !second.NotifyHost {
		t.Errorf("second frame = %+v", second)
	}
}

func TestSnapshot_Diff(t *testing.T) {
	a := &Snapshot{Frames: []FrameSnapshot{{Version: 1, Margins: [4]float64{0, 10, 0, 0}}}}
	b := &Snapshot{Frames: []FrameSnapshot{{Version: 1, Margins: [4]float64{0, 10, 0, 0}}}}
	if diff := a.Diff(b); diff != "" {
		t.Errorf("expected no diff for identical snapshots, got:\n%s", diff)
	}

	b.Frames[0].Margins[1] = 12
	diff := a.Diff(b)
	if !strings.Contains(diff, "-        12,") || !strings.Contains(diff, "+        10,") {
		t.Errorf("unexpected diff:\n%s", diff)
	}
}

func TestSnapshot_MatchesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golden", "frames.json")
	snap := &Snapshot{Frames: []FrameSnapshot{{Version: 3, Viewport: [4]float64{0, 140, 400, 940}, ForceRedraw: true}}}

	missing := &fakeT{}
	snap.MatchesFile(missing, path)
	if len(missing.fatals) != 1 {
		t.Fatalf("expected missing file to be fatal, got %+v", missing)
	}

	t.Setenv("MARGINS_UPDATE_SNAPSHOTS", "1")
	snap.MatchesFile(t, path)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("golden file not written: %v", err)
	}
	t.Setenv("MARGINS_UPDATE_SNAPSHOTS", "")

	ok := &fakeT{}
	snap.MatchesFile(ok, path)
	if len(ok.fatals)+len(ok.errors) != 0 {
		t.Errorf("expected match, got %+v", ok)
	}

	changed := &Snapshot{Frames: []FrameSnapshot{{Version: 4}}}
	mismatch := &fakeT{}
	changed.MatchesFile(mismatch, path)
	if len(mismatch.errors) != 1 {
		t.Errorf("expected one mismatch error, got %+v", mismatch)
	}
}
