package diffusion

import "errors"

var (
	// ErrConfiguration indicates a grid configuration that cannot be built,
	// such as boundary values whose length does not match the grid.
	ErrConfiguration = errors.New("diffusion: invalid configuration")

	// ErrIndexOutOfRange indicates a region outside [0, rows-1] x [0, cols-1].
	ErrIndexOutOfRange = errors.New("diffusion: index out of range")
)
