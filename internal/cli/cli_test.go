package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cyclefortytwo/iron-cuckatoo/pkg/cycle"
	"github.com/cyclefortytwo/iron-cuckatoo/pkg/graph"
	cio "github.com/cyclefortytwo/iron-cuckatoo/pkg/io"
)

var square = []graph.Edge{
	{U: 0, V: 2, Nonce: 5},
	{U: 3, V: 4, Nonce: 9},
	{U: 5, V: 6, Nonce: 1},
	{U: 7, V: 1, Nonce: 3},
}

// workspace writes a config using a file cache under dir and returns its path.
func workspace(t *testing.T, extra string) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	cfgPath = filepath.Join(dir, "cuckatoo.toml")
	body := extra + "[cache]\nbackend = \"file\"\ndir = " + quote(filepath.Join(dir, "cache")) + "\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return dir, cfgPath
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func writeSquareJSON(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	data, err := json.Marshal(map[string]any{"edges": square})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes the root command and returns its stdout.
func run(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	if stdin != nil {
		root.SetIn(stdin)
	}
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestFindJSON(t *testing.T) {
	dir, cfg := workspace(t, "")
	edges := writeSquareJSON(t, dir, "square.json")

	out, err := run(t, nil, "--config", cfg, "find", "--json", "-l", "4", edges)
	if err != nil {
		t.Fatalf("find: %v", err)
	}

	var r cio.Report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if r.Source != "square.json" || r.Length != 4 || r.Nodes != 8 || r.Edges != 4 {
		t.Errorf("report header = %+v", r)
	}
	if len(r.Solutions) != 1 {
		t.Fatalf("got %d solutions, want 1", len(r.Solutions))
	}
	want := []uint32{1, 3, 5, 9}
	for i, n := range r.Solutions[0].Nonces {
		if n != want[i] {
			t.Errorf("nonces = %v, want %v", r.Solutions[0].Nonces, want)
			break
		}
	}
	if r.RunID == "" || r.GraphHash == "" {
		t.Error("report should carry a run id and graph hash")
	}

	entries, err := os.ReadDir(filepath.Join(dir, "cache"))
	if err != nil || len(entries) == 0 {
		t.Errorf("expected a cached result under %s (err %v)", dir, err)
	}
}

func TestFindSeveralFilesPrintsArray(t *testing.T) {
	dir, cfg := workspace(t, "cycle_length = 4\n")
	a := writeSquareJSON(t, dir, "a.json")
	b := writeSquareJSON(t, dir, "b.json")

	out, err := run(t, nil, "--config", cfg, "find", "--json", a, b)
	if err != nil {
		t.Fatalf("find: %v", err)
	}

	var reports []cio.Report
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}
	if reports[0].GraphHash != reports[1].GraphHash {
		t.Error("identical inputs should share a graph hash")
	}
	if reports[1].Length != 4 {
		t.Errorf("length = %d, want the configured 4", reports[1].Length)
	}
}

func TestFindStdinBinary(t *testing.T) {
	_, cfg := workspace(t, "")
	var in bytes.Buffer
	if err := cio.WriteWords(&in, graph.Encode(square)); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, &in, "--config", cfg, "find", "--json", "--no-cache", "-l", "4", "-")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	var r cio.Report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if r.Source != "stdin" || len(r.Solutions) != 1 {
		t.Errorf("report = %+v", r)
	}
}

func TestFindURL(t *testing.T) {
	dir, cfg := workspace(t, "")
	edges := writeSquareJSON(t, dir, "square.json")
	srv := httptest.NewServer(http.FileServer(http.Dir(dir)))
	defer srv.Close()

	out, err := run(t, nil, "--config", cfg, "find", "--json", "-l", "4", srv.URL+"/"+filepath.Base(edges))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	var r cio.Report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if r.Source != "square.json" || len(r.Solutions) != 1 {
		t.Errorf("report = %+v", r)
	}
}

func TestFindWritesOutputFile(t *testing.T) {
	dir, cfg := workspace(t, "")
	edges := writeSquareJSON(t, dir, "square.json")
	report := filepath.Join(dir, "report.json")

	if _, err := run(t, nil, "--config", cfg, "find", "--json", "-l", "4", "-o", report, edges); err != nil {
		t.Fatalf("find: %v", err)
	}
	data, err := os.ReadFile(report)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"nonces"`) {
		t.Errorf("report file missing nonces: %s", data)
	}
}

func TestFindErrors(t *testing.T) {
	dir, cfg := workspace(t, "")
	edges := writeSquareJSON(t, dir, "square.json")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing file", []string{"find", filepath.Join(dir, "nope.bin")}, "nope.bin"},
		{"bad format", []string{"find", "-f", "xml", edges}, "xml"},
		{"bad order", []string{"find", "--order", "random", edges}, "random"},
		{"negative length", []string{"find", "-l", "-3", edges}, "-3"},
		{"no args", []string{"find"}, "requires at least 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, nil, append([]string{"--config", cfg}, tt.args...)...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestConfigUnknownKey(t *testing.T) {
	_, cfg := workspace(t, "colour = \"blue\"\n")

	_, err := run(t, nil, "--config", cfg, "cache", "path")
	if err == nil || !strings.Contains(err.Error(), "colour") {
		t.Errorf("err = %v, want unknown key colour", err)
	}
}

func TestCachePath(t *testing.T) {
	dir, cfg := workspace(t, "")

	out, err := run(t, nil, "--config", cfg, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got := strings.TrimSpace(out); got != filepath.Join(dir, "cache") {
		t.Errorf("cache path = %q", got)
	}
}

func TestCachePathBackends(t *testing.T) {
	tests := []struct {
		name    string
		toml    string
		want    string
		wantErr bool
	}{
		{"badger", "[cache]\nbackend = \"badger\"\nbadger_path = \"/tmp/cuckatoo-badger\"\n", "/tmp/cuckatoo-badger", false},
		{"redis", "[cache]\nbackend = \"redis\"\nredis_addr = \"cache:6379\"\nredis_db = 2\n", "redis://cache:6379/2", false},
		{"none", "[cache]\nbackend = \"none\"\n", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := filepath.Join(t.TempDir(), "cuckatoo.toml")
			if err := os.WriteFile(cfg, []byte(tt.toml), 0644); err != nil {
				t.Fatal(err)
			}
			out, err := run(t, nil, "--config", cfg, "cache", "path")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got := strings.TrimSpace(out); got != tt.want {
				t.Errorf("cache path = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderDOT(t *testing.T) {
	dir, cfg := workspace(t, "")
	edges := writeSquareJSON(t, dir, "square.json")
	output := filepath.Join(dir, "cycles.dot")

	if _, err := run(t, nil, "--config", cfg, "render", "-l", "4", "-o", output, edges); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "graph G {") {
		t.Errorf("unexpected dot output: %.40s", data)
	}
	if !strings.Contains(string(data), `label="9"`) {
		t.Errorf("dot output should label the nonce 9 edge:\n%s", data)
	}
}

func TestDiagramTarget(t *testing.T) {
	tests := []struct {
		input, output, diagram string
		wantType, wantOutput   string
		wantErr                bool
	}{
		{"edges.bin", "", "", "svg", "edges.svg", false},
		{"dir/edges.bin", "", "png", "png", "edges.png", false},
		{"edges.bin", "out.dot", "", "dot", "out.dot", false},
		{"edges.bin", "out.PNG", "", "png", "out.PNG", false},
		{"edges.bin", "out.txt", "", "svg", "out.txt", false},
		{"edges.bin", "out.svg", "DOT", "dot", "out.svg", false},
		{"-", "", "", "svg", "stdin.svg", false},
		{"edges.bin", "", "pdf", "", "", true},
	}
	for _, tt := range tests {
		gotType, gotOutput, err := diagramTarget(tt.input, tt.output, tt.diagram)
		if (err != nil) != tt.wantErr {
			t.Errorf("diagramTarget(%q, %q, %q) err = %v", tt.input, tt.output, tt.diagram, err)
			continue
		}
		if gotType != tt.wantType || gotOutput != tt.wantOutput {
			t.Errorf("diagramTarget(%q, %q, %q) = %q, %q; want %q, %q",
				tt.input, tt.output, tt.diagram, gotType, gotOutput, tt.wantType, tt.wantOutput)
		}
	}
}

func TestFormatNonces(t *testing.T) {
	sol := cycle.Solution{Nonces: []uint32{1, 10, 255}}
	if got := formatNonces(sol, false); got != "1 10 255" {
		t.Errorf("decimal = %q", got)
	}
	if got := formatNonces(sol, true); got != "1 a ff" {
		t.Errorf("hex = %q", got)
	}
}

func TestPipelineOptionsFromConfig(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config.CycleLength = 8
	c.Config.RootOrder = string(cycle.OrderSorted)

	opts := c.pipelineOptions(searchFlags{})
	if opts.Length != 8 || opts.Order != cycle.OrderSorted {
		t.Errorf("defaults not taken from config: %+v", opts)
	}

	opts = c.pipelineOptions(searchFlags{length: 4, order: "insertion", pop: true})
	if opts.Length != 4 || opts.Order != cycle.OrderInsertion || !opts.PopClosingEntry {
		t.Errorf("flags should win over config: %+v", opts)
	}
}
