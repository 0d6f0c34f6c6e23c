// Package store defines the persistence interface the handlers depend on.
// Every single-resource operation takes the owner ID alongside the record ID
// and must treat a record owned by someone else exactly like a missing one.
package store

import (
	"context"

	"github.com/jun/noteful/internal/model"
)

// NoteFilter narrows ListNotes. Zero values mean "no constraint";
// set fields combine with AND semantics.
type NoteFilter struct {
	// SearchTerm matches note titles case-insensitively as a substring.
	SearchTerm string
	FolderID   string
	TagID      string
}

// NoteChange carries the writable fields of a note. Updates replace all
// four fields; there is no partial patch.
type NoteChange struct {
	Title    string
	Content  string
	FolderID string
	TagIDs   []string
}

// Store is the persistence contract for folders, notes, tags and users.
type Store interface {
	// ListFolders returns the owner's folders in name order.
	ListFolders(ctx context.Context, ownerID string) ([]model.Folder, error)
	GetFolder(ctx context.Context, id, ownerID string) (*model.Folder, error)
	CreateFolder(ctx context.Context, ownerID, name string) (*model.Folder, error)
	UpdateFolder(ctx context.Context, id, ownerID, name string) (*model.Folder, error)
	DeleteFolder(ctx context.Context, id, ownerID string) error

	// ListTags returns the owner's tags in name order.
	// CreateTag and UpdateTag return ErrConflict when the name is already
	// taken by another of the owner's tags.
	ListTags(ctx context.Context, ownerID string) ([]model.Tag, error)
	GetTag(ctx context.Context, id, ownerID string) (*model.Tag, error)
	CreateTag(ctx context.Context, ownerID, name string) (*model.Tag, error)
	UpdateTag(ctx context.Context, id, ownerID, name string) (*model.Tag, error)
	DeleteTag(ctx context.Context, id, ownerID string) error

	// ListNotes returns the owner's notes in creation order with Tags
	// populated. GetNote also populates Tags. Dangling tag references are
	// skipped silently.
	ListNotes(ctx context.Context, ownerID string, filter NoteFilter) ([]model.Note, error)
	GetNote(ctx context.Context, id, ownerID string) (*model.Note, error)
	CreateNote(ctx context.Context, ownerID string, change NoteChange) (*model.Note, error)
	UpdateNote(ctx context.Context, id, ownerID string, change NoteChange) (*model.Note, error)
	DeleteNote(ctx context.Context, id, ownerID string) error

	// DetachFolder clears the folder reference on every owned note that
	// points at folderID. DetachTag removes tagID from every owned note's
	// tag list. Both are used before deleting the referenced resource.
	DetachFolder(ctx context.Context, folderID, ownerID string) error
	DetachTag(ctx context.Context, tagID, ownerID string) error

	// CreateUser returns ErrConflict when the username is already taken,
	// system-wide.
	CreateUser(ctx context.Context, username, fullname, passwordHash string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	// IsValidID reports whether id has the store's native identifier shape.
	// Handlers call this before any lookup so malformed IDs never reach
	// the store.
	IsValidID(id string) bool
}
