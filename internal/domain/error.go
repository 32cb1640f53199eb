package domain

import "errors"

var (
	// Command parsing
	ErrNotCommand     = errors.New("text is not a bot command")
	ErrUnknownCommand = errors.New("command not recognized")

	// Access and transport
	ErrMembershipLookup = errors.New("chat membership lookup failed")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrQueueFull        = errors.New("event queue full")

	// Poller lease
	ErrLockHeld = errors.New("lock held by another owner")
	ErrLockLost = errors.New("lock lost")

	// Startup
	ErrInvalidConfig = errors.New("invalid configuration")
)
