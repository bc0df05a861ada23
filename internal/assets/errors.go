package assets

import "errors"

// Sentinel errors for style loading.
var (
	// ErrStyleNotFound indicates the requested style does not exist.
	ErrStyleNotFound = errors.New("style not found")

	// ErrInvalidAssetName indicates the style name contains path
	// separators, dots, or is otherwise unusable as a file name.
	ErrInvalidAssetName = errors.New("invalid style name")

	// ErrInvalidBasePath indicates the custom style directory is unusable.
	ErrInvalidBasePath = errors.New("invalid style directory")

	// ErrAssetRead indicates an I/O error while reading a style file.
	ErrAssetRead = errors.New("failed to read style")
)
