package recipe

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/recipegen/pkg/errors"
)

// Writer persists fragments as one file per (kind, package) pair.
type Writer struct {
	paths Paths
}

// NewWriter creates a Writer that stores each kind under paths[kind].
func NewWriter(paths Paths) *Writer {
	return &Writer{paths: paths}
}

// Write stores every non-empty fragment of pkg, replacing any previous file,
// and returns the paths written in [Kinds] order. Kind directories are
// created as needed.
//
// pkg must be usable as a file name; see [errors.ValidatePackageName].
func (w *Writer) Write(pkg string, frags Fragments) ([]string, error) {
	if err := errors.ValidatePackageName(pkg); err != nil {
		return nil, err
	}

	var written []string
	for _, k := range Kinds {
		lines := frags[k]
		if len(lines) == 0 {
			continue
		}
		dir, ok := w.paths[k]
		if !ok || dir == "" {
			return written, errors.New(errors.ErrCodeInternal, "no output directory for %s", k)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return written, errors.Wrap(errors.ErrCodeWrite, err, "create %s", dir)
		}
		path := filepath.Join(dir, pkg)
		if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
			return written, errors.Wrap(errors.ErrCodeWrite, err, "write %s", path)
		}
		written = append(written, path)
	}
	return written, nil
}
