// Package docstore abstracts the shared document database the hub
// replicates through. Documents are opaque JSON blobs addressed by
// slash-separated paths; writers replace whole documents and readers
// subscribe for snapshots.
package docstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no document exists at the path.
var ErrNotFound = errors.New("docstore: document not found")

// Store is the contract the replication layer needs from the document
// database.
//
// Overwrite is a full-document replace, never a merge: a merge would
// leave stale card references behind whenever a list shrank.
//
// Subscribe delivers the current document immediately if one exists,
// then every subsequent overwrite, until the returned unsubscribe
// function is called or ctx is cancelled. Intermediate writes may be
// coalesced by a backend; only the most recent document is guaranteed.
//
// Update applies a read-modify-write atomically against the document.
// It exists for the narrow compare-and-swap cases (lobby seat claims);
// match-state replication deliberately does not use it.
//
// Delete removes the document and notifies subscribers with a nil
// snapshot, so watchers can drop state that no longer exists.
type Store interface {
	Get(ctx context.Context, path string) ([]byte, error)
	Overwrite(ctx context.Context, path string, data []byte) error
	Update(ctx context.Context, path string, fn func(old []byte) ([]byte, error)) error
	Subscribe(ctx context.Context, path string, fn func(data []byte)) (func(), error)
	Delete(ctx context.Context, path string) error
}
