package gallery

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	perrors "github.com/matzehuels/pearls/pkg/errors"
	"github.com/matzehuels/pearls/pkg/pipeline"
)

func testEntry(t *testing.T, name string, created time.Time) *Entry {
	t.Helper()
	opts := pipeline.Options{Seed: 11}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	e, err := NewEntry(name, opts, "abc")
	if err != nil {
		t.Fatal(err)
	}
	e.CreatedAt = created
	return e
}

var entryCmp = cmp.Options{
	cmpopts.IgnoreUnexported(pipeline.Options{}),
	cmpopts.IgnoreFields(pipeline.Options{}, "Logger"),
	cmpopts.EquateEmpty(),
}

func TestNewEntry(t *testing.T) {
	e, err := NewEntry("  sunset  ", pipeline.Options{}, "h")
	if err != nil {
		t.Fatal(err)
	}
	if e.Name != "sunset" {
		t.Errorf("Name = %q, want trimmed", e.Name)
	}
	if err := ValidateID(e.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", e.ID, err)
	}

	for _, bad := range []string{"", "   ", "tab\x00name", strings.Repeat("x", 129)} {
		if _, err := NewEntry(bad, pipeline.Options{}, "h"); !perrors.Is(err, perrors.ErrCodeInvalidInput) {
			t.Errorf("NewEntry(%q) error = %v, want INVALID_INPUT", bad, err)
		}
	}
}

func TestValidateID(t *testing.T) {
	if err := ValidateID("not-a-uuid"); !perrors.Is(err, perrors.ErrCodeInvalidInput) {
		t.Errorf("error = %v", err)
	}
}

// testStore runs the Store contract against s.
func testStore(t *testing.T, s Store) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	old := testEntry(t, "old", base)
	mid := testEntry(t, "mid", base.Add(time.Hour))
	recent := testEntry(t, "new", base.Add(2*time.Hour))

	for _, e := range []*Entry{mid, old, recent} {
		if err := s.Save(ctx, e); err != nil {
			t.Fatalf("Save(%s): %v", e.Name, err)
		}
	}

	got, err := s.Get(ctx, mid.ID)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(mid, got, entryCmp); diff != "" {
		t.Errorf("Get mismatch (-want +got):\n%s", diff)
	}

	list, err := s.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range list {
		names = append(names, e.Name)
	}
	if diff := cmp.Diff([]string{"new", "mid", "old"}, names); diff != "" {
		t.Errorf("List order (-want +got):\n%s", diff)
	}

	if list, _ := s.List(ctx, 2); len(list) != 2 {
		t.Errorf("List(2) returned %d entries", len(list))
	}

	mid.Name = "renamed"
	if err := s.Save(ctx, mid); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Get(ctx, mid.ID); got == nil || got.Name != "renamed" {
		t.Errorf("Save should replace existing entries, got %+v", got)
	}

	if err := s.Delete(ctx, old.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, old.ID); !perrors.Is(err, perrors.ErrCodeNotFound) {
		t.Errorf("Get after Delete error = %v, want NOT_FOUND", err)
	}
	if err := s.Delete(ctx, old.ID); !perrors.Is(err, perrors.ErrCodeNotFound) {
		t.Errorf("second Delete error = %v, want NOT_FOUND", err)
	}

	if err := s.Save(ctx, &Entry{ID: "bogus"}); !perrors.Is(err, perrors.ErrCodeInvalidInput) {
		t.Errorf("Save with bad ID error = %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	e := testEntry(t, "x", time.Now())
	if err := s.Save(ctx, e); err != nil {
		t.Fatal(err)
	}
	e.Options.Colors[0] = "#000000"
	got, _ := s.Get(ctx, e.ID)
	if got.Options.Colors[0] == "#000000" {
		t.Error("store should not alias caller slices")
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("PEARLS_MONGO_URI")
	if uri == "" {
		t.Skip("PEARLS_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, uri, "pearls_test_"+strings.ReplaceAll(time.Now().Format("150405.000"), ".", ""))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = s.coll.Database().Drop(ctx)
		_ = s.Close(ctx)
	})
	testStore(t, s)
}
