package internalerr

import "errors"

// Sentinel errors for fatal topology conditions
var (
	ErrUnsupportedBranching = errors.New("unsupported branching")
	ErrInconsistentTopology = errors.New("inconsistent topology")
	ErrUnresolvedPointRole  = errors.New("unresolved point role")
	ErrInvalidConfig        = errors.New("invalid configuration")
	ErrInvalidInput         = errors.New("invalid input")
	ErrBuilderUnavailable   = errors.New("asset builder unavailable")
	ErrDuplicateAssembly    = errors.New("result already assembled")
)
