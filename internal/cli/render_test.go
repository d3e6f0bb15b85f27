package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		output  string
		want    map[string]string
	}{
		{
			name:    "single format with output",
			formats: []string{"png"},
			output:  "art/pic.png",
			want:    map[string]string{"png": "art/pic.png"},
		},
		{
			name:    "single format named after seed",
			formats: []string{"svg"},
			want:    map[string]string{"svg": "pearls-42.svg"},
		},
		{
			name:    "multiple formats strip known extension",
			formats: []string{"svg", "pdf"},
			output:  "out/pic.svg",
			want:    map[string]string{"svg": "out/pic.svg", "pdf": "out/pic.pdf"},
		},
		{
			name:    "multiple formats keep unknown extension",
			formats: []string{"svg", "png"},
			output:  "v1.2",
			want:    map[string]string{"svg": "v1.2.svg", "png": "v1.2.png"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.formats, tt.output, 42)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("outputPaths() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderWritesFiles(t *testing.T) {
	isolate(t)
	base := filepath.Join(t.TempDir(), "nested", "pic")

	_, err := execute(t, "render", "-f", "svg,png,pdf,json", "-o", base, "--seed", "11", "--size", "200", "--title", "hello")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}

	prefixes := map[string][]byte{
		"svg":  []byte("<?xml"),
		"png":  []byte("\x89PNG"),
		"pdf":  []byte("%PDF-"),
		"json": []byte("{"),
	}
	for format, prefix := range prefixes {
		data, err := os.ReadFile(base + "." + format)
		if err != nil {
			t.Fatalf("%s not written: %v", format, err)
		}
		if !bytes.HasPrefix(data, prefix) {
			t.Errorf("%s output starts with %q", format, data[:min(len(data), 8)])
		}
	}
	svg, _ := os.ReadFile(base + ".svg")
	if !bytes.Contains(svg, []byte("<title>hello</title>")) {
		t.Error("svg missing title")
	}
}

func TestRenderNodelink(t *testing.T) {
	isolate(t)
	out := filepath.Join(t.TempDir(), "graph.dot")

	if _, err := execute(t, "render", "-t", "nodelink", "-f", "dot", "-o", out, "--seed", "4", "--detailed"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("graph G {")) {
		t.Errorf("dot output = %.40s", data)
	}
}

func TestRenderErrors(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"render", "-f", "gif"}},
		{"nodelink pdf", []string{"render", "-t", "nodelink", "-f", "pdf"}},
		{"unknown type", []string{"render", "-t", "tower"}},
		{"too many rows", []string{"render", "--rows", "100000"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "-o", filepath.Join(dir, "x"))
			if _, err := execute(t, args...); err == nil {
				t.Errorf("%v should fail", tt.args)
			}
		})
	}
}
