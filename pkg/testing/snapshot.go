package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-drift/margins/pkg/viewport"
)

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot is the sequence of commits a store received.
type Snapshot struct {
	Frames []FrameSnapshot `json:"frames"`
}

// FrameSnapshot is one commit with coordinates rounded to two decimals.
type FrameSnapshot struct {
	Version uint64 `json:"version"`
	// Margins are left, top, right, bottom.
	Margins [4]float64 `json:"margins"`
	// Viewport is left, top, right, bottom.
	Viewport    [4]float64 `json:"viewport"`
	ForceRedraw bool       `json:"forceRedraw,omitempty"`
	NotifyHost  bool       `json:"notifyHost,omitempty"`
}

// FrameRecorder collects commits from a viewport.Store.
type FrameRecorder struct {
	mu     sync.Mutex
	frames []FrameSnapshot
	remove func()
}

// RecordFrames starts recording every commit made to store.
func RecordFrames(store *viewport.Store) *FrameRecorder {
	r := &FrameRecorder{}
	r.remove = store.AddListener(r.record)
	return r
}

func (r *FrameRecorder) record(c viewport.Commit) {
	m, v := c.Metrics.Margins, c.Metrics.ViewportRect
	frame := FrameSnapshot{
		Version:     c.Version,
		Margins:     [4]float64{round2(m.Left), round2(m.Top), round2(m.Right), round2(m.Bottom)},
		Viewport:    [4]float64{round2(v.Left), round2(v.Top), round2(v.Right), round2(v.Bottom)},
		ForceRedraw: c.ForceRedraw,
		NotifyHost:  c.NotifyHost,
	}
	r.mu.Lock()
	r.frames = append(r.frames, frame)
	r.mu.Unlock()
}

// Stop detaches the recorder from its store.
func (r *FrameRecorder) Stop() {
	r.remove()
}

// Snapshot returns the commits recorded so far.
func (r *FrameRecorder) Snapshot() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	frames := make([]FrameSnapshot, len(r.frames))
	copy(frames, r.frames)
	return &Snapshot{Frames: frames}
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When MARGINS_UPDATE_SNAPSHOTS=1
// is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv("MARGINS_UPDATE_SNAPSHOTS") == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: MARGINS_UPDATE_SNAPSHOTS=1 go test -run %s", path, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: MARGINS_UPDATE_SNAPSHOTS=1 go test -run %s", path, diff, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a line diff between other (expected) and this snapshot.
// Returns empty string if equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := marshalSnapshot(s)
	b, _ := marshalSnapshot(other)
	if bytes.Equal(a, b) {
		return ""
	}
	return unifiedDiff(string(b), string(a))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// unifiedDiff lists the lines that differ at each position.
func unifiedDiff(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	var buf strings.Builder
	buf.WriteString("--- expected\n+++ actual\n")

	for i := range max(len(expectedLines), len(actualLines)) {
		var e, a string
		if i < len(expectedLines) {
			e = expectedLines[i]
		}
		if i < len(actualLines) {
			a = actualLines[i]
		}
		if e == a {
			continue
		}
		if i < len(expectedLines) {
			fmt.Fprintf(&buf, "-%s\n", e)
		}
		if i < len(actualLines) {
			fmt.Fprintf(&buf, "+%s\n", a)
		}
	}

	return buf.String()
}
