package analyze

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"csi/archive"
	"csi/misc"
)

// maxSourceSize limits size of a single analyzed file.
const maxSourceSize = 32 << 20

// stdinName is reported as name of the source read from standard input.
const stdinName = "STDIN"

// source is a single stylesheet or HTML document to analyze.
type source struct {
	// name is used in output, it is relative to what was requested on
	// command line.
	name string
	// path on disk if source is a regular file.
	path string
	html bool
	read func() ([]byte, error)
}

type discoverer struct {
	filter archive.Filter
	stdin  io.Reader
	log    *zap.Logger
}

// discover finds everything to analyze for command line argument: standard
// input, single file, directory tree, whole zip/epub archive or a path inside
// it ("site.zip/css" or "book.epub/OEBPS/style.css").
func (d *discoverer) discover(ctx context.Context, src string) ([]source, error) {
	if misc.IsStdin(src) {
		return []source{{
			name: stdinName,
			read: func() ([]byte, error) { return readLimited(d.stdin) },
		}}, nil
	}

	abs, err := filepath.Abs(src)
	if err != nil {
		return nil, err
	}

	var head, tail string
	for head = abs; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return nil, fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(abs, head))
			}
			return d.discoverDir(ctx, head)
		}

		if !fi.Mode().IsRegular() {
			return nil, fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(abs, head))
		}

		isArchive, err := archive.IsArchive(head)
		if err != nil {
			return nil, fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			inner := strings.TrimPrefix(strings.TrimPrefix(abs, head), string(filepath.Separator))
			return d.discoverArchive(ctx, head, filepath.ToSlash(inner), filepath.Base(head))
		}

		if len(tail) != 0 {
			return nil, fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(abs, head))
		}
		return []source{fileSource(head, filepath.Base(head))}, nil
	}
	return nil, fmt.Errorf("input source was not found (%s)", src)
}

// discoverDir walks directory tree finding stylesheets, HTML documents and
// archives with them. Symbolic links are not followed.
func (d *discoverer) discoverDir(ctx context.Context, dir string) ([]source, error) {
	var sources []source
	err := filepath.WalkDir(dir, func(p string, de fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			d.log.Warn("Skipping path", zap.String("path", p), zap.Error(err))
			return nil
		}
		if !de.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		isArchive, err := archive.IsArchive(p)
		if err != nil {
			d.log.Warn("Skipping file", zap.String("file", p), zap.Error(err))
			return nil
		}
		if isArchive {
			found, err := d.discoverArchive(ctx, p, "", rel)
			if err != nil {
				d.log.Error("Unable to process archive", zap.String("file", p), zap.Error(err))
				return nil
			}
			sources = append(sources, found...)
			return nil
		}

		if !d.filter(p) {
			d.log.Debug("Skipping file, not recognized as stylesheet", zap.String("file", p))
			return nil
		}
		sources = append(sources, fileSource(p, rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		d.log.Debug("Nothing to process", zap.String("dir", dir))
	}
	return sources, nil
}

// discoverArchive reads stylesheets under prefix inside archive. When prefix
// names single file it is analyzed regardless of its extension.
func (d *discoverer) discoverArchive(ctx context.Context, arc, prefix, name string) ([]source, error) {
	filter := func(n string) bool { return n == prefix || d.filter(n) }

	var sources []source
	err := archive.Walk(arc, prefix, filter, func(_ string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := archive.ReadFile(f, maxSourceSize)
		if err != nil {
			d.log.Warn("Skipping file in archive", zap.String("archive", arc), zap.String("path", f.Name), zap.Error(err))
			return nil
		}
		sources = append(sources, source{
			name: name + "/" + f.Name,
			html: isHTML(f.Name),
			read: func() ([]byte, error) { return data, nil },
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to read archive: %w", err)
	}
	if len(sources) == 0 {
		if prefix != "" {
			return nil, fmt.Errorf("input source was not found in archive (%s) => (%s)", arc, prefix)
		}
		d.log.Debug("Nothing to process", zap.String("archive", arc))
	}
	return sources, nil
}

func fileSource(p, name string) source {
	return source{
		name: name,
		path: p,
		html: isHTML(p),
		read: func() ([]byte, error) {
			f, err := os.Open(p)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			return readLimited(f)
		},
	}
}

var errTooLarge = errors.New("source is too large")

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSourceSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxSourceSize {
		return nil, errTooLarge
	}
	return data, nil
}
