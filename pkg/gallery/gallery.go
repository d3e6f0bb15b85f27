// Package gallery stores named compositions.
//
// An [Entry] keeps the options a composition was made with, not its
// rendered bytes: compositions are deterministic, so the server re-renders
// an entry on demand (hitting the artifact cache in the common case).
//
// Two stores are provided. [MemoryStore] backs tests and single-process
// servers; [MongoStore] persists entries in MongoDB.
package gallery

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	perrors "github.com/matzehuels/pearls/pkg/errors"
	"github.com/matzehuels/pearls/pkg/pipeline"
)

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 50

// Entry is a saved composition.
type Entry struct {
	ID        string           `json:"id" bson:"_id"`
	Name      string           `json:"name" bson:"name"`
	Options   pipeline.Options `json:"options" bson:"options"`
	Hash      string           `json:"hash" bson:"hash"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at"`
}

// NewEntry validates name and creates an entry with a fresh ID. Runtime
// options (formats, refresh, logger) are not part of an entry.
func NewEntry(name string, opts pipeline.Options, hash string) (*Entry, error) {
	if err := perrors.ValidateName(name); err != nil {
		return nil, err
	}
	opts.Formats, opts.Refresh, opts.Logger = nil, false, nil
	return &Entry{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Options:   opts,
		Hash:      hash,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}, nil
}

// Store persists gallery entries. Get and Delete return a NOT_FOUND error
// for unknown IDs. List returns the newest entries first.
type Store interface {
	Save(ctx context.Context, e *Entry) error
	Get(ctx context.Context, id string) (*Entry, error)
	List(ctx context.Context, limit int) ([]*Entry, error)
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context) error
}

// ValidateID checks that id is a UUID.
func ValidateID(id string) error {
	if err := uuid.Validate(id); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidInput, err, "invalid id %q", id)
	}
	return nil
}

func notFound(id string) error {
	return perrors.New(perrors.ErrCodeNotFound, "gallery entry %s not found", id)
}

func listLimit(limit int) int {
	if limit <= 0 || limit > DefaultListLimit {
		return DefaultListLimit
	}
	return limit
}
