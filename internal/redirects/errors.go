package redirects

import "errors"

// Domain-level error sentinels. Handlers match these with errors.Is to pick
// a response; anything else is treated as a store failure.
var (
	ErrValidation = errors.New("old url and new url are required")
	ErrDuplicate  = errors.New("redirect already exists")
	ErrLoop       = errors.New("redirect would cause a redirect loop")
	ErrNotFound   = errors.New("redirect not found")
	ErrPattern    = errors.New("invalid redirect pattern")
)
