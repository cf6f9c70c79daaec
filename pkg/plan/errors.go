package plan

import "errors"

// ErrInvalidMapping indicates the token-to-plan table failed its totality
// checks at construction time.
var ErrInvalidMapping = errors.New("invalid plan mapping configuration")
