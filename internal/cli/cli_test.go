package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points the cache and config directories at temp dirs and
// silences status output for the duration of the test.
func isolate(t *testing.T) (status *bytes.Buffer) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	status = &bytes.Buffer{}
	old := statusOut
	statusOut = status
	t.Cleanup(func() { statusOut = old })
	return status
}

// run executes the root command with args and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.SetOutput(&out)

	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.Execute()
	return out.String(), err
}

func TestCanon(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"single", []string{"canon", "OCC"}, "CCO\n"},
		{"same molecule", []string{"canon", "OCC", "C(O)C"}, "CCO\nCCO\n"},
		{"branch", []string{"canon", "OC(C)C"}, "CC(C)O\n"},
		{"native", []string{"canon", "--native", "OCC"}, "OCC\n"},
		{"no cache", []string{"canon", "--no-cache", "OCC"}, "CCO\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("canon: %v", err)
			}
			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCanon_Failures(t *testing.T) {
	status := isolate(t)

	got, err := run(t, "canon", "OCC", "C1CC")
	if err == nil {
		t.Fatal("expected error for unclosed ring")
	}
	if !strings.Contains(err.Error(), "1 of 2") {
		t.Errorf("error = %q, want failure count", err)
	}
	if got != "CCO\n" {
		t.Errorf("output = %q, want only the good molecule", got)
	}
	if !strings.Contains(status.String(), "C1CC") {
		t.Errorf("status output should name the failed input, got %q", status.String())
	}

	if _, err := run(t, "canon"); err == nil {
		t.Error("expected error without arguments")
	}
	if _, err := run(t, "canon", "--ring-numbering", "random", "OCC"); err == nil {
		t.Error("expected error for unknown ring numbering")
	}
}

func TestCanon_Graph(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "ethanol.json")
	doc := `{"name":"ethanol","atoms":[{"element":"O","hydrogens":1},{"element":"C","hydrogens":2},{"element":"C","hydrogens":3}],"bonds":[{"begin":0,"end":1,"order":1},{"begin":1,"end":2,"order":1}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := run(t, "canon", "--graph", path)
	if err != nil {
		t.Fatalf("canon --graph: %v", err)
	}
	if got != "CCO\n" {
		t.Errorf("output = %q, want %q", got, "CCO\n")
	}
}

func TestGraph(t *testing.T) {
	isolate(t)

	got, err := run(t, "graph", "--name", "ethanol", "OCC")
	if err != nil {
		t.Fatalf("graph: %v", err)
	}
	if !strings.Contains(got, `"name": "ethanol"`) || !strings.Contains(got, `"element": "O"`) {
		t.Errorf("graph output = %s", got)
	}

	path := filepath.Join(t.TempDir(), "ethanol.json")
	if _, err := run(t, "graph", "-o", path, "OCC"); err != nil {
		t.Fatalf("graph -o: %v", err)
	}
	canon, err := run(t, "canon", "--graph", path)
	if err != nil {
		t.Fatalf("canon --graph: %v", err)
	}
	if canon != "CCO\n" {
		t.Errorf("round trip = %q, want %q", canon, "CCO\n")
	}
}

func TestConfigFile(t *testing.T) {
	isolate(t)

	dir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := "[line]\nrecord_separator = \";\"\n\n[cache]\nbackend = \"none\"\n"
	if err := os.WriteFile(filepath.Join(dir, "molline.toml"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := run(t, "canon", "OCC", "N")
	if err != nil {
		t.Fatalf("canon: %v", err)
	}
	if got != "CCO;N;" {
		t.Errorf("output = %q, want %q", got, "CCO;N;")
	}

	explicit := filepath.Join(t.TempDir(), "native.yaml")
	if err := os.WriteFile(explicit, []byte("line:\n  canonical: false\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = run(t, "--config", explicit, "canon", "OCC")
	if err != nil {
		t.Fatalf("canon --config: %v", err)
	}
	if got != "OCC\n" {
		t.Errorf("output = %q, want %q", got, "OCC\n")
	}

	bad := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(bad, []byte("[line]\nno_such_key = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "--config", bad, "canon", "OCC"); err == nil {
		t.Error("expected error for unknown config key")
	}
}

func TestBatch(t *testing.T) {
	status := isolate(t)

	in := filepath.Join(t.TempDir(), "in.smi")
	data := "# molecules\nOCC ethanol\n\nC1CC broken\nN ammonia\n"
	if err := os.WriteFile(in, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := run(t, "batch", "--workers", "2", in)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if want := "CCO\n\nN\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if !strings.Contains(status.String(), "Batch complete") {
		t.Errorf("status should report completion, got %q", status.String())
	}

	out := filepath.Join(t.TempDir(), "out.smi")
	if _, err := run(t, "batch", "-o", out, in); err != nil {
		t.Fatalf("batch -o: %v", err)
	}
	written, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(written) != "CCO\n\nN\n" {
		t.Errorf("file = %q", written)
	}

	if _, err := run(t, "batch", "--format", "sdf", in); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, err := run(t, "batch", filepath.Join(t.TempDir(), "missing.smi")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestTree(t *testing.T) {
	isolate(t)

	got, err := run(t, "tree", "C1CC1")
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	if !strings.HasPrefix(got, "digraph G {") {
		t.Errorf("tree should write DOT, got %q", got)
	}
	if !strings.Contains(got, "style=dashed") {
		t.Error("ring closure should be drawn dashed")
	}

	path := filepath.Join(t.TempDir(), "tree.dot")
	if _, err := run(t, "tree", "-o", path, "OCC"); err != nil {
		t.Fatalf("tree -o: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output file not written: %v", err)
	}

	if _, err := run(t, "tree", "-f", "gif", "OCC"); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, err := run(t, "tree"); err == nil {
		t.Error("expected error without a molecule")
	}
}

func TestTreeFormatFor(t *testing.T) {
	tests := map[string]string{
		"":           "dot",
		"out.svg":    "svg",
		"out.PNG":    "png",
		"out.dot":    "dot",
		"out.txt":    "dot",
		"dir/x.y.gv": "dot",
	}
	for path, want := range tests {
		if got := treeFormatFor(path); got != want {
			t.Errorf("treeFormatFor(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestRanks(t *testing.T) {
	isolate(t)

	got, err := run(t, "ranks", "--json", "OCC")
	if err != nil {
		t.Fatalf("ranks: %v", err)
	}
	var report rankReport
	if err := json.Unmarshal([]byte(got), &report); err != nil {
		t.Fatalf("decode: %v\n%s", err, got)
	}
	if report.Text != "CCO" {
		t.Errorf("text = %q, want CCO", report.Text)
	}
	if len(report.Atoms) != 3 {
		t.Fatalf("rows = %d, want 3", len(report.Atoms))
	}
	if report.Atoms[0].Symbol != "O" || report.Atoms[0].Order != 2 {
		t.Errorf("oxygen row = %+v, want written last", report.Atoms[0])
	}

	table, err := run(t, "ranks", "OCC")
	if err != nil {
		t.Fatalf("ranks table: %v", err)
	}
	if !strings.Contains(table, "Rank") {
		t.Errorf("table should have a Rank header, got %q", table)
	}
}

func TestCacheCommands(t *testing.T) {
	status := isolate(t)

	got, err := run(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	want := filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName)
	if strings.TrimSpace(got) != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}

	if _, err := run(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear on empty cache: %v", err)
	}
	if !strings.Contains(status.String(), "Cache is empty") {
		t.Errorf("status = %q, want empty-cache notice", status.String())
	}

	if _, err := run(t, "canon", "OCC"); err != nil {
		t.Fatal(err)
	}
	status.Reset()
	if _, err := run(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if !strings.Contains(status.String(), "Cleared 1") {
		t.Errorf("status = %q, want one cleared entry", status.String())
	}
}

func TestCompletion(t *testing.T) {
	isolate(t)

	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		got, err := run(t, "completion", shell)
		if err != nil {
			t.Fatalf("completion %s: %v", shell, err)
		}
		if got == "" {
			t.Errorf("completion %s wrote nothing", shell)
		}
	}
	if _, err := run(t, "completion", "tcsh"); err == nil {
		t.Error("expected error for unsupported shell")
	}
}
