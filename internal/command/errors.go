package command

import (
	"errors"
	"fmt"
)

// Command errors.
var (
	// ErrUnknownCommand indicates no handler or alias matched the first word.
	ErrUnknownCommand = errors.New("command: unknown command")

	// ErrAliasLoop indicates an alias that would expand into itself.
	ErrAliasLoop = errors.New("command: alias refers to itself")

	// ErrInvalidName indicates an empty or whitespace-containing name.
	ErrInvalidName = errors.New("command: invalid name")

	// ErrPanic indicates the handler panicked.
	ErrPanic = errors.New("command: handler panic")
)

// UnknownCommandError names the word that matched no handler or alias.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnknownCommand, e.Name)
}

func (e *UnknownCommandError) Unwrap() error {
	return ErrUnknownCommand
}
