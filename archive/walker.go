// Package archive builds Walk abstraction on top of "archive/zip".
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The archive argument contains path to archive passed to
// Walk, the file argument is the zip.File structure for file in archive which
// satisfies prefix and filter conditions. If an error is returned, processing
// stops.
type WalkFunc func(archive string, file *zip.File) error

// Filter decides whether file in archive is of interest.
type Filter func(name string) bool

// Extensions returns filter accepting names with any of the extensions (case
// insensitive, with leading dot). Without extensions everything is accepted.
func Extensions(exts ...string) Filter {
	return func(name string) bool {
		if len(exts) == 0 {
			return true
		}
		ext := path.Ext(name)
		for _, e := range exts {
			if strings.EqualFold(ext, e) {
				return true
			}
		}
		return false
	}
}

// Walk walks the all files in the archive under prefix which satisfy filter,
// calling walkFn for each item. Nil filter accepts everything. Archives with
// path traversal components ("..") or absolute paths in entry names are
// rejected.
func Walk(archive, prefix string, filter Filter, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		if filter != nil && !filter(name) {
			continue
		}
		if err := walkFn(archive, f); err != nil {
			return err
		}
	}
	return nil
}

// ErrTooLarge is returned by ReadFile for entries exceeding requested limit.
var ErrTooLarge = errors.New("archive entry is too large")

// ReadFile returns content of the file in archive, reading no more than limit
// bytes when limit is positive.
func ReadFile(f *zip.File, limit int64) ([]byte, error) {
	if limit > 0 && f.UncompressedSize64 > uint64(limit) {
		return nil, fmt.Errorf("%s: %w", f.Name, ErrTooLarge)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var r io.Reader = rc
	if limit > 0 {
		// header sizes could lie
		r = io.LimitReader(rc, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("%s: %w", f.Name, ErrTooLarge)
	}
	return data, nil
}

// IsArchive reports whether file looks like zip container (".zip" or ".epub"
// extension and matching signature).
func IsArchive(name string) (bool, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".zip" && ext != ".epub" {
		return false, nil
	}

	f, err := os.Open(name)
	if err != nil {
		return false, err
	}
	defer f.Close()

	// enough for all signatures filetype knows about
	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	head = head[:n]
	return filetype.Is(head, "zip") || filetype.Is(head, "epub"), nil
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
