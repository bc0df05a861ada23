package assets

import (
	"io/fs"
	"slices"
	"strings"
)

// DefaultStyle is the style applied when a page asks for one by the empty name.
const DefaultStyle = "default"

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a built-in stylesheet by name.
// The name should not include the .css extension or path components.
// An empty name loads DefaultStyle.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// Names lists the built-in styles, sorted.
func Names() []string {
	entries, err := fs.ReadDir(styles, "styles")
	if err != nil {
		return nil
	}
	return styleNames(entries)
}

// styleNames keeps the .css files whose base name is a valid style name.
func styleNames(entries []fs.DirEntry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".css")
		if !ok || e.IsDir() || ValidateAssetName(name) != nil {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
