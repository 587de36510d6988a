package sim

import "errors"

// Domain errors for simulation operations.
var (
	// ErrUnknownParam indicates a SetParam name the model does not define.
	ErrUnknownParam = errors.New("sim: unknown parameter")

	// ErrUnknownModel indicates a simulation name outside the registry.
	ErrUnknownModel = errors.New("sim: unknown simulation model")

	// ErrNegativeStep indicates the clock was advanced backwards.
	ErrNegativeStep = errors.New("sim: negative time step")
)
