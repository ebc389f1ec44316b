package types

import "fmt"

// CommandError reports a failed command effect with its place in the stream
type CommandError struct {
	Command string
	Pointer int
	Err     error
}

// Error implements the error interface
func (e *CommandError) Error() string {
	return fmt.Sprintf("command %d (%s): %v", e.Pointer, e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
