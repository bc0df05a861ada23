package assets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// maxStyleBytes bounds one custom stylesheet. Pages inline it whole.
const maxStyleBytes = 1 << 20

// StyleDir loads stylesheets from {dir}/styles/{name}.css.
//
// Every lookup goes through an os.Root, so a symlink or any other path that
// leaves the directory fails instead of reading elsewhere.
type StyleDir struct {
	root *os.Root
}

// OpenStyleDir opens dir for style lookups. Returns ErrInvalidBasePath if
// dir is not a readable directory. Call Close when done.
func OpenStyleDir(dir string) (*StyleDir, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, dir)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, dir)
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	return &StyleDir{root: root}, nil
}

// LoadStyle reads a stylesheet. An empty name loads DefaultStyle.
func (d *StyleDir) LoadStyle(name string) (string, error) {
	if name == "" {
		name = DefaultStyle
	}
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	f, err := d.root.Open(filepath.Join("styles", name+".css"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
		}
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(io.LimitReader(f, maxStyleBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	if len(content) > maxStyleBytes {
		return "", fmt.Errorf("%w: %q is larger than %d bytes", ErrAssetRead, name, maxStyleBytes)
	}
	return string(content), nil
}

// Names lists the styles in the directory, sorted. A missing styles folder
// lists nothing.
func (d *StyleDir) Names() ([]string, error) {
	entries, err := fs.ReadDir(d.root.FS(), "styles")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return styleNames(entries), nil
}

// Close releases the directory handle.
func (d *StyleDir) Close() error {
	return d.root.Close()
}

var _ StyleLoader = (*StyleDir)(nil)
