package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pearls/pkg/pipeline"
	"github.com/matzehuels/pearls/pkg/preset"
)

func parseOptionFlags(t *testing.T, args ...string) (*cobra.Command, *optionFlags) {
	t.Helper()
	var f optionFlags
	cmd := &cobra.Command{Use: "test"}
	f.bind(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags(%v) error: %v", args, err)
	}
	return cmd, &f
}

func writeTestPreset(t *testing.T, path string, p *preset.Preset) {
	t.Helper()
	if err := writePreset(path, p); err != nil {
		t.Fatal(err)
	}
}

func testPreset() *preset.Preset {
	seed := uint64(42)
	return &preset.Preset{
		Name:  "test",
		Grid:  preset.Grid{Rows: 8, Cols: 9, Density: pipeline.Float64(0.4), Seed: &seed},
		Style: preset.Style{Colors: []string{"#111111", "#222222"}, StrokeWidth: 2},
		Render: preset.Render{
			Formats: []string{"png"},
		},
	}
}

func TestResolveWithoutPreset(t *testing.T) {
	isolate(t)
	cmd, f := parseOptionFlags(t, "--rows", "3", "--colors", "#fff,#000", "--margin", "0.2")

	got, err := f.resolve(cmd)
	if err != nil {
		t.Fatalf("resolve() error: %v", err)
	}
	if got.Seed > 999_999_999 {
		t.Errorf("random seed %d out of range", got.Seed)
	}
	want := pipeline.Options{Rows: 3, Colors: []string{"#fff", "#000"}, MarginFraction: pipeline.Float64(0.2), Seed: got.Seed}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreUnexported(pipeline.Options{})); diff != "" {
		t.Errorf("resolve() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveFlagsOverridePreset(t *testing.T) {
	_, configHome := isolate(t)
	writeTestPreset(t, filepath.Join(configHome, appName, presetFile), testPreset())

	tests := []struct {
		name string
		args []string
		want pipeline.Options
	}{
		{
			name: "preset only",
			want: pipeline.Options{
				Rows: 8, Cols: 9, Density: pipeline.Float64(0.4), Seed: 42,
				Colors: []string{"#111111", "#222222"}, StrokeWidth: 2,
				Formats: []string{"png"},
			},
		},
		{
			name: "flags win",
			args: []string{"--rows", "3", "--seed", "7", "--colors", "#abcdef"},
			want: pipeline.Options{
				Rows: 3, Cols: 9, Density: pipeline.Float64(0.4), Seed: 7,
				Colors: []string{"#abcdef"}, StrokeWidth: 2,
				Formats: []string{"png"},
			},
		},
		{
			name: "explicit zeros win",
			args: []string{"--seed", "0", "--stroke", "0"},
			want: pipeline.Options{
				Rows: 8, Cols: 9, Density: pipeline.Float64(0.4), Seed: 0,
				Colors: []string{"#111111", "#222222"}, StrokeWidth: 0,
				Formats: []string{"png"},
			},
		},
		{
			name: "zero density and margin win",
			args: []string{"--density", "0", "--margin", "0"},
			want: pipeline.Options{
				Rows: 8, Cols: 9, Density: pipeline.Float64(0), Seed: 42,
				Colors: []string{"#111111", "#222222"}, StrokeWidth: 2,
				MarginFraction: pipeline.Float64(0),
				Formats: []string{"png"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, f := parseOptionFlags(t, tt.args...)
			got, err := f.resolve(cmd)
			if err != nil {
				t.Fatalf("resolve() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.IgnoreUnexported(pipeline.Options{})); diff != "" {
				t.Errorf("resolve() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveExplicitPreset(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "mine.toml")
	writeTestPreset(t, path, testPreset())

	cmd, f := parseOptionFlags(t, "--preset", path)
	got, err := f.resolve(cmd)
	if err != nil {
		t.Fatalf("resolve() error: %v", err)
	}
	if got.Rows != 8 || got.Seed != 42 {
		t.Errorf("resolve() = %+v, want preset values", got)
	}
}

func TestResolvePresetErrors(t *testing.T) {
	_, configHome := isolate(t)

	// A missing explicit preset is an error.
	cmd, f := parseOptionFlags(t, "--preset", filepath.Join(t.TempDir(), "missing.toml"))
	if _, err := f.resolve(cmd); err == nil {
		t.Error("missing --preset file should fail")
	}

	// A broken default preset is an error too.
	dir := filepath.Join(configHome, appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, presetFile), []byte("[grid]\nrowz = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cmd, f = parseOptionFlags(t)
	if _, err := f.resolve(cmd); err == nil {
		t.Error("invalid default preset should fail")
	}
}
