package fetch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
)

// Dir reads locators as slash-separated paths below a root.
type Dir struct {
	fsys fs.FS
}

// NewDir returns a Dir rooted at the given directory.
func NewDir(root string) *Dir {
	return &Dir{fsys: os.DirFS(root)}
}

// NewFS returns a Dir reading from fsys.
func NewFS(fsys fs.FS) *Dir {
	return &Dir{fsys: fsys}
}

func (d *Dir) Fetch(ctx context.Context, locator string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if IsRemote(locator) {
		return nil, fmt.Errorf("%w: %s is not a local path", ErrUnavailable, locator)
	}
	name, ok := cleanLocal(locator)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, locator)
	}
	data, err := fs.ReadFile(d.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, locator)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", locator, err)
	}
	return data, nil
}

// cleanLocal turns a locator into an fs.FS name, refusing anything that
// would escape the root.
func cleanLocal(locator string) (string, bool) {
	if i := strings.IndexAny(locator, "?#"); i >= 0 {
		locator = locator[:i]
	}
	if path.IsAbs(locator) {
		return "", false
	}
	name := path.Clean(locator)
	if name == ".." || strings.HasPrefix(name, "../") {
		return "", false
	}
	return name, fs.ValidPath(name) && name != "."
}
