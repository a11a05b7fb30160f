package margins_test

import (
	"testing"

	drifttest "github.com/go-drift/margins/pkg/testing"
)

func TestController_ShowScrollHideFrames(t *testing.T) {
	h := newHarness(t, tallPage().SetViewportOrigin(0, 500))
	rec := drifttest.RecordFrames(h.store)
	t.Cleanup(rec.Stop)

	h.ctrl.SetMaxMargins(0, 40, 0, 40)
	h.ctrl.ShowMargins(true)
	h.ctrl.Scroll(0, 30)
	h.ctrl.HideMargins(true)

	rec.Snapshot().MatchesFile(t, "testdata/show_scroll_hide.json")
}
