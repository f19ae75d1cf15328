package progression

import "github.com/levelupapp/levelup-server/internal/errors"

// Engine sentinels. Lookups wrap them in coded errors, so a returned error
// matches its own sentinel and also errors.ErrNotFound or errors.ErrValidation.
var (
	ErrUnknownTask  = errors.New("unknown task")
	ErrUnknownLevel = errors.New("unknown level")
	ErrInvalidTable = errors.New("invalid definition table")
)
