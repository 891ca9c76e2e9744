package interp

import (
	"fmt"

	"github.com/agenthands/minitri/pkg/compiler/ast"
	"github.com/agenthands/minitri/pkg/core/value"
)

// Eval evaluates e in the current environment. Built-ins use it to read
// their arguments.
func (it *Interpreter) Eval(e ast.Expression) (value.Value, error) {
	return it.eval(e)
}

func (it *Interpreter) eval(e ast.Expression) (value.Value, error) {
	if err := it.tick(e); err != nil {
		return value.Void, err
	}

	switch e := e.(type) {
	case *ast.IntegerLiteral:
		return value.FromInt(e.Value), nil

	case *ast.VnameExpression:
		b, ok := it.env.Lookup(e.Name)
		if !ok {
			return value.Void, runtimeErr(e.Token, e.Name, ErrUnbound)
		}
		switch b.Value.Type {
		case value.TypeVoid:
			return value.Void, runtimeErr(e.Token, e.Name, ErrUninitialized)
		case value.TypeFunc:
			return value.Void, runtimeErr(e.Token, e.Name, fmt.Errorf("%w: function used as a value", ErrType))
		}
		return b.Value, nil

	case *ast.UnaryExpression:
		v, err := it.eval(e.Operand)
		if err != nil {
			return value.Void, err
		}
		if v.Type != value.TypeInt {
			return value.Void, runtimeErr(e.Token, "", fmt.Errorf("%w: unary %s on %s", ErrType, e.Op, v.Format()))
		}
		if e.Op == ast.OpSub {
			return value.FromInt(-v.Int()), nil
		}
		return v, nil

	case *ast.BinaryExpression:
		l, err := it.eval(e.Left)
		if err != nil {
			return value.Void, err
		}
		r, err := it.eval(e.Right)
		if err != nil {
			return value.Void, err
		}
		v, err := binary(e.Op, l, r)
		if err != nil {
			return value.Void, runtimeErr(e.Token, "", err)
		}
		return v, nil

	case *ast.CallExpression:
		if _, ok := it.builtins[e.Name]; ok {
			return value.Void, runtimeErr(e.Token, e.Name, fmt.Errorf("%w: built-in used as an expression", ErrUnsupportedCall))
		}
		b, ok := it.env.Lookup(e.Name)
		if !ok {
			return value.Void, runtimeErr(e.Token, e.Name, ErrUnbound)
		}
		cl, ok := b.Value.Opaque.(*closure)
		if b.Value.Type != value.TypeFunc || !ok {
			return value.Void, runtimeErr(e.Token, e.Name, ErrUnsupportedCall)
		}
		v, err := it.invoke(e.Token, cl, ast.Args(e.Arg))
		if err != nil {
			return value.Void, err
		}
		if v.IsVoid() {
			return value.Void, runtimeErr(e.Token, e.Name, ErrNoValue)
		}
		return v, nil

	default:
		return value.Void, runtimeErr(e.Pos(), "", fmt.Errorf("%w: %T is not a value", ErrType, e))
	}
}

func binary(op ast.Operator, l, r value.Value) (value.Value, error) {
	if op == ast.OpEQ {
		if l.Type != r.Type || (l.Type != value.TypeInt && l.Type != value.TypeBool) {
			return value.Void, fmt.Errorf("%w: %s = %s", ErrType, l.Format(), r.Format())
		}
		return value.FromBool(l.Data == r.Data), nil
	}

	if l.Type != value.TypeInt || r.Type != value.TypeInt {
		return value.Void, fmt.Errorf("%w: %s %s %s", ErrType, l.Format(), op, r.Format())
	}
	a, b := l.Int(), r.Int()

	switch op {
	case ast.OpAdd:
		return value.FromInt(a + b), nil
	case ast.OpSub:
		return value.FromInt(a - b), nil
	case ast.OpMul:
		return value.FromInt(a * b), nil
	case ast.OpDiv:
		if b == 0 {
			return value.Void, ErrDivisionByZero
		}
		return value.FromInt(a / b), nil
	case ast.OpMod:
		if b == 0 {
			return value.Void, ErrDivisionByZero
		}
		return value.FromInt(a % b), nil
	case ast.OpLT:
		return value.FromBool(a < b), nil
	case ast.OpGT:
		return value.FromBool(a > b), nil
	default:
		return value.Void, fmt.Errorf("%w: unknown operator %s", ErrType, op)
	}
}
