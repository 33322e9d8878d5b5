/* errors.go
 * Contains the error kinds surfaced by the engine. All engine failures are deterministic for a given
 * state and input, so callers should report them and let the user fix the input, never retry
 * Authors: Zachary Bower
 */

package tournament

import "fmt"

// ValidationError indicates bad caller input: too few players, duplicate names, malformed custom
// pairing sets, result codes disabled by settings, or missing fields on import
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError indicates an unknown round number or pairing ID
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func newNotFoundError(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// StateError indicates an operation that is invalid in the current lifecycle state, such as starting
// a round past TotalRounds or finishing before the final round is complete
type StateError struct {
	Message string
}

func (e *StateError) Error() string {
	return e.Message
}

func newStateError(format string, args ...interface{}) *StateError {
	return &StateError{Message: fmt.Sprintf(format, args...)}
}
