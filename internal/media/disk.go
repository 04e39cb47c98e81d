package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/xid"
	"github.com/sakif/restro-server/internal/apperror"
)

// allowedExts mirrors the image formats the upload endpoint accepts.
// Anything else is rejected before a byte is written.
var allowedExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// DiskStore writes uploads to a local directory and serves them back under
// a fixed URL prefix. The generated filename is an xid plus the original
// extension — unique, URL-safe, and time-sortable.
type DiskStore struct {
	dir       string
	urlPrefix string
}

// NewDiskStore creates the upload directory if needed and returns a store
// that maps saved files to references under urlPrefix (e.g. "/uploads").
func NewDiskStore(dir, urlPrefix string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("media: creating upload dir %s: %w", dir, err)
	}
	return &DiskStore{
		dir:       dir,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
	}, nil
}

// Dir returns the directory files are written to, for wiring the static
// file server.
func (s *DiskStore) Dir() string {
	return s.dir
}

var _ Store = (*DiskStore)(nil)

// Save streams r to disk under a generated name and returns the public
// reference path.
//
// The extension check is by name only — validating actual image bytes is
// out of scope here, matching the contract that the core never inspects
// image content.
func (s *DiskStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExts[ext] {
		return "", apperror.ValidationFailed("image",
			fmt.Sprintf("unsupported image format %q (allowed: jpg, jpeg, png, webp)", ext))
	}

	// Honor cancellation before doing disk work — an aborted upload request
	// shouldn't leave a file behind.
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := xid.New().String() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("media: creating %s: %w", path, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path) // don't keep a truncated upload
		return "", fmt.Errorf("media: writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("media: closing %s: %w", path, err)
	}

	return s.urlPrefix + "/" + name, nil
}

// Remove deletes the file behind a reference previously returned by Save.
// Anything that doesn't look like one of our references (wrong prefix, or a
// name containing a path separator) is refused rather than resolved.
func (s *DiskStore) Remove(ctx context.Context, ref string) error {
	name, ok := strings.CutPrefix(ref, s.urlPrefix+"/")
	if !ok || name == "" || strings.ContainsAny(name, "/\\") {
		return apperror.ValidationFailed("image", fmt.Sprintf("unknown image reference %q", ref))
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("media: removing %s: %w", name, err)
	}
	return nil
}
