package instrinfo

import (
	"errors"
	"fmt"
)

var (
	ErrNoInstructions = errors.New("no instructions defined")
	ErrNoNamespace    = errors.New("no instruction namespace defined")
)

// SchemaError reports an instruction description that cannot be turned
// into tables.
type SchemaError struct {
	Instruction string
	Err         error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid instruction %s: %v", e.Instruction, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

func schemaErrorf(inst, format string, args ...interface{}) error {
	return &SchemaError{Instruction: inst, Err: fmt.Errorf(format, args...)}
}

// InternalError reports a broken invariant inside the compiler itself.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string {
	return "internal error: " + e.Msg
}

func internalErrorf(format string, args ...interface{}) error {
	return &InternalError{Msg: fmt.Sprintf(format, args...)}
}
