package interp

import (
	"errors"
	"fmt"

	"github.com/agenthands/minitri/pkg/compiler/lexer"
)

var (
	ErrNotLetProgram     = errors.New("interp: program root must be a let command")
	ErrUnbound           = errors.New("interp: unbound name")
	ErrUninitialized     = errors.New("interp: variable used before assignment")
	ErrRedeclared        = errors.New("interp: name already declared in this scope")
	ErrAssignToConst     = errors.New("interp: cannot assign to constant")
	ErrNotAssignable     = errors.New("interp: name is not a variable")
	ErrType              = errors.New("interp: type mismatch")
	ErrDivisionByZero    = errors.New("interp: division by zero")
	ErrUnsupportedCall   = errors.New("interp: unsupported call")
	ErrBadBuiltinArg     = errors.New("interp: bad built-in argument")
	ErrArity             = errors.New("interp: wrong number of arguments")
	ErrNoValue           = errors.New("interp: function returned no value")
	ErrReturnOutsideFunc = errors.New("interp: return outside function")
	ErrCallDepth         = errors.New("interp: call depth exceeded")
	ErrStepLimit         = errors.New("interp: step limit exceeded")
)

// RuntimeError ties an evaluation failure to the node that caused it.
type RuntimeError struct {
	Pos  lexer.Token
	Name string
	Err  error
}

func (e *RuntimeError) Error() string {
	msg := e.Err.Error()
	if e.Name != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Name)
	}
	return fmt.Sprintf("%s at offset %d (line %d)", msg, e.Pos.Offset, e.Pos.Line)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

func runtimeErr(pos lexer.Token, name string, err error) error {
	return &RuntimeError{Pos: pos, Name: name, Err: err}
}
