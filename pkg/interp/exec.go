package interp

import (
	"fmt"

	"github.com/agenthands/minitri/pkg/compiler/ast"
	"github.com/agenthands/minitri/pkg/core/value"
)

// outcome carries a pending return out of nested commands.
type outcome struct {
	returned bool
	value    value.Value
}

func (it *Interpreter) exec(c ast.Command) (outcome, error) {
	if err := it.tick(c); err != nil {
		return outcome{}, err
	}

	switch c := c.(type) {
	case *ast.SequentialCommand:
		out, err := it.exec(c.First)
		if err != nil || out.returned {
			return out, err
		}
		return it.exec(c.Second)

	case *ast.AssignCommand:
		v, err := it.eval(c.Value)
		if err != nil {
			return outcome{}, err
		}
		if err := it.env.Assign(c.Name, v); err != nil {
			return outcome{}, runtimeErr(c.Token, c.Name, err)
		}
		return outcome{}, nil

	case *ast.CallCommand:
		return outcome{}, it.execCall(c)

	case *ast.IfCommand:
		ok, err := it.cond(c.Cond)
		if err != nil {
			return outcome{}, err
		}
		if ok {
			return it.exec(c.Then)
		}
		return it.exec(c.Else)

	case *ast.WhileCommand:
		for {
			ok, err := it.cond(c.Cond)
			if err != nil || !ok {
				return outcome{}, err
			}
			out, err := it.exec(c.Body)
			if err != nil || out.returned {
				return out, err
			}
		}

	case *ast.LetCommand:
		it.push()
		defer it.pop()
		if err := it.declare(c.Decl); err != nil {
			return outcome{}, err
		}
		return it.exec(c.Body)

	case *ast.ReturnCommand:
		if it.callDepth == 0 {
			return outcome{}, runtimeErr(c.Token, "", ErrReturnOutsideFunc)
		}
		v, err := it.eval(c.Value)
		if err != nil {
			return outcome{}, err
		}
		return outcome{returned: true, value: v}, nil

	default:
		return outcome{}, fmt.Errorf("interp: unknown command %T", c)
	}
}

func (it *Interpreter) execCall(c *ast.CallCommand) error {
	if fn, ok := it.builtins[c.Name]; ok {
		return fn(it, c)
	}
	b, ok := it.env.Lookup(c.Name)
	if !ok {
		return runtimeErr(c.Token, c.Name, ErrUnbound)
	}
	cl, ok := b.Value.Opaque.(*closure)
	if b.Value.Type != value.TypeFunc || !ok {
		return runtimeErr(c.Token, c.Name, ErrUnsupportedCall)
	}
	_, err := it.invoke(c.Token, cl, ast.Args(c.Arg))
	return err
}

func (it *Interpreter) declare(d ast.Declaration) error {
	if err := it.tick(d); err != nil {
		return err
	}

	switch d := d.(type) {
	case *ast.SequentialDeclaration:
		if err := it.declare(d.First); err != nil {
			return err
		}
		return it.declare(d.Second)

	case *ast.VarDeclaration:
		return it.define(d, d.Name, Binding{Type: d.Type, Value: value.Void})

	case *ast.ConstDeclaration:
		v, err := it.eval(d.Value)
		if err != nil {
			return err
		}
		var tag string
		switch v.Type {
		case value.TypeInt:
			tag = "Integer"
		case value.TypeBool:
			tag = "Boolean"
		default:
			return runtimeErr(d.Token, d.Name, ErrType)
		}
		return it.define(d, d.Name, Binding{Type: tag, Value: v, Const: true})

	case *ast.FuncDeclaration:
		// The snapshot holds the frame the closure is bound into, so the
		// body can call itself.
		cl := &closure{decl: d, frames: it.env.snapshot()}
		return it.define(d, d.Name, Binding{Type: d.ReturnType, Value: value.FromFunc(cl)})

	default:
		return fmt.Errorf("interp: unknown declaration %T", d)
	}
}

func (it *Interpreter) define(d ast.Declaration, name string, b Binding) error {
	if err := it.env.Define(name, b); err != nil {
		return runtimeErr(d.Pos(), name, err)
	}
	return nil
}

func (it *Interpreter) cond(e ast.Expression) (bool, error) {
	v, err := it.eval(e)
	if err != nil {
		return false, err
	}
	switch v.Type {
	case value.TypeBool:
		return v.Bool(), nil
	case value.TypeInt:
		return v.Int() != 0, nil
	default:
		return false, runtimeErr(e.Pos(), "", fmt.Errorf("%w: %s used as condition", ErrType, v.Type))
	}
}
