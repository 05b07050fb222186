package input

import "fmt"

// InputError means nothing usable was piped in.
type InputError struct {
	Reason string
	Err    error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("input: %s: %v", e.Reason, e.Err)
	}
	return "input: " + e.Reason
}

func (e *InputError) Unwrap() error { return e.Err }

// ParseError means stdin was not valid JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
