package fem

import "errors"

// ErrSingularSystem indicates the constrained global stiffness cannot be
// factorized, usually because rigid body motion is not suppressed.
var ErrSingularSystem = errors.New("fem: singular global system")
