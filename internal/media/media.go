// Package media stores uploaded images and hands back retrievable
// references. The rest of the system only ever sees the reference string —
// post records store it, handlers pass it through, nobody inspects bytes.
package media

import (
	"context"
	"io"
)

// Store saves uploaded files under generated unique names.
//
// Save takes the client-supplied filename only to derive the extension; the
// stored name is always server-generated. It returns the public reference
// (a URL path) to persist on the post record.
//
// Remove deletes a file by the reference Save returned, so a caller whose
// write ultimately fails can undo the upload.
type Store interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Remove(ctx context.Context, ref string) error
}
