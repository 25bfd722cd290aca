package config

import "fmt"

// ParseError reports a malformed source document.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("config: parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// AssignError reports a malformed key=value assignment.
type AssignError struct {
	Input  string
	Reason string
}

func (e *AssignError) Error() string {
	return fmt.Sprintf("config: invalid assignment %q: %s", e.Input, e.Reason)
}
