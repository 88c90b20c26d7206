package scheduler

import "errors"

var (
	// ErrControllerNil is returned when NewDaemon is called without a controller.
	ErrControllerNil = errors.New("controller cannot be nil")
	// ErrAlreadyStarted is returned when Start is called on a running daemon.
	ErrAlreadyStarted = errors.New("scheduler daemon already started")
	// ErrNotStarted is returned when Stop is called before Start.
	ErrNotStarted = errors.New("scheduler daemon not started")
	// ErrInvalidDelayRange is returned for a non-positive or inverted idle delay window.
	ErrInvalidDelayRange = errors.New("idle delay range must be positive with min <= max")
	// ErrInvalidPollInterval is returned for a non-positive poll interval.
	ErrInvalidPollInterval = errors.New("poll interval must be positive")
)
