package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/pearls/pkg/pipeline"
)

func newTestEditor(t *testing.T) EditorModel {
	t.Helper()
	m, err := newEditorModel(context.Background(), pipeline.Options{Rows: 4, Cols: 4, Seed: 10})
	if err != nil {
		t.Fatalf("newEditorModel() error: %v", err)
	}
	return m
}

func press(t *testing.T, m EditorModel, keys ...string) EditorModel {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(EditorModel)
	}
	return m
}

func fieldIndex(t *testing.T, name string) int {
	t.Helper()
	for i, f := range editorFields {
		if f.name == name {
			return i
		}
	}
	t.Fatalf("no editor field %q", name)
	return -1
}

func TestEditorInitial(t *testing.T) {
	m := newTestEditor(t)
	if m.comp == nil || !m.regenerated {
		t.Fatal("first composition should be generated")
	}
	if len(m.comp.Layers) != len(m.opts.Colors) {
		t.Errorf("%d layers for %d colors", len(m.comp.Layers), len(m.opts.Colors))
	}
	view := m.View()
	for _, f := range editorFields {
		if !strings.Contains(view, f.name) {
			t.Errorf("view missing field %q", f.name)
		}
	}
}

func TestEditorStyleEditReusesGrids(t *testing.T) {
	m := newTestEditor(t)
	before := m.comp.Layers[0].Grid

	down := make([]string, fieldIndex(t, "stroke"))
	for i := range down {
		down[i] = "down"
	}
	m = press(t, m, down...)
	m = press(t, m, "right")

	if m.opts.StrokeWidth != 0.5 {
		t.Errorf("stroke = %v, want 0.5", m.opts.StrokeWidth)
	}
	if m.regenerated {
		t.Error("stroke change should reuse grids")
	}
	if m.comp.Layers[0].Grid != before {
		t.Error("grids should be shared after a style edit")
	}
	if !strings.Contains(m.View(), "grids reused") {
		t.Error("view should report reused grids")
	}

	m = press(t, m, "p")
	if m.regenerated {
		t.Error("new palette should reuse grids")
	}
}

func TestEditorShapeEditRegenerates(t *testing.T) {
	m := newTestEditor(t)

	m = press(t, m, "right") // rows
	if m.opts.Rows != 5 || !m.regenerated || m.comp.Rows != 5 {
		t.Errorf("rows edit: rows=%d regenerated=%v", m.opts.Rows, m.regenerated)
	}

	layers := len(m.opts.Colors)
	down := make([]string, fieldIndex(t, "layers"))
	for i := range down {
		down[i] = "down"
	}
	m = press(t, m, down...)
	m = press(t, m, "left")
	if len(m.opts.Colors) != layers-1 || len(m.comp.Layers) != layers-1 {
		t.Errorf("layers = %d, want %d", len(m.comp.Layers), layers-1)
	}
	m = press(t, m, "right", "right")
	if len(m.comp.Layers) != layers+1 {
		t.Errorf("layers = %d, want %d", len(m.comp.Layers), layers+1)
	}

	seed := m.opts.Seed
	m = press(t, m, "r")
	if m.opts.Seed == seed && !m.regenerated {
		t.Error("reseed should regenerate")
	}
}

func TestEditorClamps(t *testing.T) {
	o := pipeline.Options{Seed: 0, Colors: []string{"#000000"}, Density: pipeline.Float64(0.05), MarginFraction: pipeline.Float64(0.02)}
	adjustSeed(&o, -1)
	if o.Seed != 0 {
		t.Errorf("seed went below zero: %d", o.Seed)
	}
	adjustLayers(&o, -1)
	if len(o.Colors) != 1 {
		t.Errorf("layers dropped to %d", len(o.Colors))
	}
	for range 2 {
		editorFields[fieldIndex(t, "margin")].adjust(&o, -1)
		editorFields[fieldIndex(t, "density")].adjust(&o, -1)
	}
	if *o.MarginFraction != 0 {
		t.Errorf("margin = %v, want 0", *o.MarginFraction)
	}
	if *o.Density != 0 {
		t.Errorf("density = %v, want 0", *o.Density)
	}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero density and margin rejected: %v", err)
	}
	if *o.MarginFraction != 0 || *o.Density != 0 {
		t.Errorf("defaults overwrote zeros: density %v margin %v", *o.Density, *o.MarginFraction)
	}
	o.MarginFraction = pipeline.Float64(0.48)
	editorFields[fieldIndex(t, "margin")].adjust(&o, 1)
	if *o.MarginFraction != 0.48 {
		t.Errorf("margin = %v, want 0.48", *o.MarginFraction)
	}
}

func TestEditorQuit(t *testing.T) {
	m := newTestEditor(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestEditorSavedMsg(t *testing.T) {
	m := newTestEditor(t)
	next, _ := m.Update(savedMsg{paths: []string{"a.svg", "a.png"}})
	if !strings.Contains(next.(EditorModel).status, "a.svg, a.png") {
		t.Errorf("status = %q", next.(EditorModel).status)
	}
}
