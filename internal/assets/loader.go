package assets

// StyleLoader loads a CSS stylesheet by name (without .css extension) and
// lists the names it can load.
// Implementations return ErrStyleNotFound for unknown names and
// ErrInvalidAssetName for names that are not plain identifiers.
type StyleLoader interface {
	LoadStyle(name string) (string, error)
	Names() ([]string, error)
}
