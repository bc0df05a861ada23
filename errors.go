package kiwimark

import (
	"errors"

	"github.com/alnah/go-kiwimark/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrInvalidOrgMode = errors.New("invalid org mode")

	// ErrInvalidBaseURL is returned when Input.BaseURL cannot be parsed.
	ErrInvalidBaseURL = pipeline.ErrInvalidBaseURL

	// ErrUnterminatedCodeBlock is wrapped by warnings for a code: fence
	// without a closing :code line.
	ErrUnterminatedCodeBlock = pipeline.ErrUnterminatedCodeBlock
)
