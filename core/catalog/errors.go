package catalog

import "errors"

var (
	// ErrLoadFailed is returned when the catalog file cannot be read or parsed.
	ErrLoadFailed = errors.New("failed to load template catalog")
	// ErrInvalidTemplate is returned when a template entry is missing required fields.
	ErrInvalidTemplate = errors.New("invalid template definition")
	// ErrDuplicateTemplate is returned when two templates share an id.
	ErrDuplicateTemplate = errors.New("duplicate template id")
	// ErrInvalidSelection is returned for an unknown selection policy.
	ErrInvalidSelection = errors.New("selection policy must be random or sequential")
)
