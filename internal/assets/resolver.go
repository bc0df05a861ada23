package assets

import (
	"errors"
	"slices"
)

// StyleResolver combines a custom directory with the built-in styles.
// Custom styles are tried first; only a not-found error falls back.
type StyleResolver struct {
	custom   *StyleDir // nil if no custom directory configured
	embedded *EmbeddedLoader
}

// NewStyleResolver creates a StyleResolver.
// If customDir is empty, only built-in styles are used.
// Returns ErrInvalidBasePath if customDir is set but unusable.
func NewStyleResolver(customDir string) (*StyleResolver, error) {
	resolver := &StyleResolver{
		embedded: NewEmbeddedLoader(),
	}

	if customDir != "" {
		dir, err := OpenStyleDir(customDir)
		if err != nil {
			return nil, err
		}
		resolver.custom = dir
	}

	return resolver, nil
}

// LoadStyle loads a style, trying the custom directory first if configured.
func (r *StyleResolver) LoadStyle(name string) (string, error) {
	if r.custom == nil {
		return r.embedded.LoadStyle(name)
	}

	content, err := r.custom.LoadStyle(name)
	if err == nil {
		return content, nil
	}

	// Validation and I/O errors are not masked by the fallback
	if !errors.Is(err, ErrStyleNotFound) {
		return "", err
	}

	return r.embedded.LoadStyle(name)
}

// Names lists custom and built-in styles together, sorted and without
// duplicates.
func (r *StyleResolver) Names() ([]string, error) {
	names := Names()
	if r.custom == nil {
		return names, nil
	}

	custom, err := r.custom.Names()
	if err != nil {
		return nil, err
	}
	names = append(names, custom...)
	slices.Sort(names)
	return slices.Compact(names), nil
}

// HasCustomLoader reports whether a custom style directory is configured.
func (r *StyleResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Close releases the custom directory, if any.
func (r *StyleResolver) Close() error {
	if r.custom == nil {
		return nil
	}
	return r.custom.Close()
}

// Compile-time interface check.
var _ StyleLoader = (*StyleResolver)(nil)
