package interp

import (
	"fmt"

	"github.com/agenthands/minitri/pkg/compiler/ast"
	"github.com/agenthands/minitri/pkg/core/value"
)

// Builtin implements a procedure invoked by a call command. Built-ins take
// precedence over user bindings of the same name.
type Builtin func(it *Interpreter, call *ast.CallCommand) error

func defaultBuiltins() map[string]Builtin {
	return map[string]Builtin{
		"getint": getint,
		"putint": putint,
	}
}

// IO returns the channel the interpreter was created with.
func (it *Interpreter) IO() IO { return it.io }

// getint reads one integer into the variable named by its argument.
func getint(it *Interpreter, c *ast.CallCommand) error {
	v, ok := c.Arg.(*ast.VnameExpression)
	if !ok {
		return runtimeErr(c.Token, c.Name, fmt.Errorf("%w: getint needs a variable", ErrBadBuiltinArg))
	}
	// Resolve the target before consuming input.
	b, ok := it.env.Lookup(v.Name)
	if !ok {
		return runtimeErr(v.Token, v.Name, ErrUnbound)
	}
	if b.Const {
		return runtimeErr(v.Token, v.Name, ErrAssignToConst)
	}
	if b.Value.Type == value.TypeFunc {
		return runtimeErr(v.Token, v.Name, ErrNotAssignable)
	}

	n, err := it.io.ReadInt()
	if err != nil {
		return runtimeErr(c.Token, c.Name, err)
	}
	b.Value.SetInt(n)
	return nil
}

// putint writes the integer value of its argument.
func putint(it *Interpreter, c *ast.CallCommand) error {
	if c.Arg == nil {
		return runtimeErr(c.Token, c.Name, fmt.Errorf("%w: putint needs one argument", ErrBadBuiltinArg))
	}
	if _, ok := c.Arg.(*ast.ArgList); ok {
		return runtimeErr(c.Token, c.Name, fmt.Errorf("%w: putint takes one argument", ErrBadBuiltinArg))
	}
	v, err := it.eval(c.Arg)
	if err != nil {
		return err
	}
	if v.Type != value.TypeInt {
		return runtimeErr(c.Arg.Pos(), c.Name, fmt.Errorf("%w: putint of %s", ErrType, v.Type))
	}
	if err := it.io.WriteInt(v.Int()); err != nil {
		return runtimeErr(c.Token, c.Name, err)
	}
	return nil
}
