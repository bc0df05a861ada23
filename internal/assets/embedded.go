package assets

import (
	"embed"
	"fmt"
)

//go:embed styles/*.css
var styles embed.FS

// EmbeddedLoader loads the built-in styles.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle loads a built-in style by name. An empty name loads DefaultStyle.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	if name == "" {
		name = DefaultStyle
	}
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}

	return string(content), nil
}

// Names lists the built-in styles.
func (e *EmbeddedLoader) Names() ([]string, error) {
	return Names(), nil
}

// Compile-time interface check.
var _ StyleLoader = (*EmbeddedLoader)(nil)
