package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const toolbarScenario = `
name: toolbar
viewport:
  page: {width: 400, height: 2000}
  viewport: {top: 500, width: 400, height: 800}
maxMargins: {top: 40}
steps:
  - show
`

func writeScenario(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "toolbar.yaml")
	if err := os.WriteFile(path, []byte(toolbarScenario), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &bytes.Buffer{}
	err := app.Run(contextWithEnv(context.Background()), append([]string{"marginsim"}, args...))
	return out.String(), err
}

func TestRunCommandPrintsTable(t *testing.T) {
	out, err := runApp(t, "run", "--scenario", writeScenario(t))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "final after") || !strings.Contains(out, "FixedMarginsChanged") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRunCommandJSONAndPNG(t *testing.T) {
	pngPath := filepath.Join(t.TempDir(), "timeline.png")
	out, err := runApp(t, "--debug", "run", "-s", writeScenario(t), "--json", "--png", pngPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if decoded["name"] != "toolbar" {
		t.Errorf("name = %v", decoded["name"])
	}

	data, err := os.ReadFile(pngPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("timeline is not a PNG file")
	}
}

func TestRunCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing scenario flag", []string{"run"}},
		{"missing file", []string{"run", "-s", filepath.Join(t.TempDir(), "none.yaml")}},
		{"unwritable png", []string{"run", "-s", writeScenario(t), "--png", filepath.Join(t.TempDir(), "no", "such", "dir.png")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runApp(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runApp(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "marginsim version "+Version) {
		t.Errorf("output = %q", out)
	}
}

func TestRunCommandSampleScenario(t *testing.T) {
	out, err := runApp(t, "run", "-s", filepath.Join("testdata", "toolbar.yaml"))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "margins l=0.00 t=0.00 r=0.00 b=0.00") {
		t.Errorf("margins should be hidden at the end:\n%s", out)
	}
}
