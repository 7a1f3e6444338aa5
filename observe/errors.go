package observe

import "errors"

var (
	// ErrMissingServiceName reports an empty Config.ServiceName.
	ErrMissingServiceName = errors.New("observe: service name is required")

	// ErrInvalidSampleRatio reports a Tracing.SampleRatio outside [0, 1].
	ErrInvalidSampleRatio = errors.New("observe: sample ratio outside [0, 1]")
)
