package cli

import (
	"bytes"
	"context"
	"io"
	"testing"
)

// isolate points the cache and config directories at temp dirs so tests
// never read or write the user's files.
func isolate(t *testing.T) (cacheHome, configHome string) {
	t.Helper()
	cacheHome, configHome = t.TempDir(), t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)
	t.Setenv("XDG_CONFIG_HOME", configHome)
	return cacheHome, configHome
}

// execute runs the root command with args and returns what it wrote to
// its output stream.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{"generate", "render", "palette", "tui", "serve", "preset", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.Use != appName {
		t.Errorf("root.Use = %q, want %q", root.Use, appName)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestParseColors(t *testing.T) {
	if got := parseColors(""); got != nil {
		t.Errorf("parseColors(\"\") = %v, want nil", got)
	}
	got := parseColors("#fff, #000000 ,#abc")
	want := []string{"#fff", "#000000", "#abc"}
	if len(got) != len(want) {
		t.Fatalf("parseColors() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("parseColors()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRandomSeedRange(t *testing.T) {
	for range 100 {
		if s := randomSeed(); s > 999_999_999 {
			t.Fatalf("randomSeed() = %d, out of range", s)
		}
	}
}

func TestCompletion(t *testing.T) {
	isolate(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, err := execute(t, "completion", shell)
		if err != nil {
			t.Fatalf("completion %s: %v", shell, err)
		}
		if len(out) == 0 {
			t.Errorf("completion %s produced no output", shell)
		}
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("completion for an unknown shell should fail")
	}
}
