package scheduler

import "errors"

var (
	// ErrInvalidConfig is returned when the schedule or timezone cannot be parsed
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrAlreadyRunning is returned when a run is requested while another is in progress
	ErrAlreadyRunning = errors.New("distribution run already in progress")
)
