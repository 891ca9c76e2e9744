package interp

import (
	"github.com/agenthands/minitri/pkg/compiler/ast"
	"github.com/agenthands/minitri/pkg/compiler/lexer"
	"github.com/agenthands/minitri/pkg/core/value"
)

// closure is a declared function together with the frames visible at its
// declaration.
type closure struct {
	decl   *ast.FuncDeclaration
	frames []*Frame
}

func (it *Interpreter) invoke(pos lexer.Token, cl *closure, args []ast.Expression) (value.Value, error) {
	name := cl.decl.Name
	if len(args) != len(cl.decl.Params) {
		return value.Void, runtimeErr(pos, name, ErrArity)
	}

	// Arguments see the caller's environment.
	vals := make([]value.Value, len(args))
	for i, a := range args {
		v, err := it.eval(a)
		if err != nil {
			return value.Void, err
		}
		vals[i] = v
	}

	if it.maxCallDepth > 0 && it.callDepth >= it.maxCallDepth {
		return value.Void, runtimeErr(pos, name, ErrCallDepth)
	}

	it.callDepth++
	frames := make([]*Frame, len(cl.frames), len(cl.frames)+1)
	copy(frames, cl.frames)
	caller := it.env.swap(frames)
	it.push()
	defer func() {
		it.pop()
		it.env.swap(caller)
		it.callDepth--
	}()
	it.logger.Debug("call", "func", name, "depth", it.callDepth)

	for i, p := range cl.decl.Params {
		if err := it.env.Define(p.Name, Binding{Type: p.Type, Value: vals[i]}); err != nil {
			return value.Void, runtimeErr(cl.decl.Token, p.Name, err)
		}
	}

	out, err := it.exec(cl.decl.Body)
	if err != nil {
		return value.Void, err
	}
	if !out.returned {
		out.value = value.Void
	}
	it.logger.Debug("return", "func", name, "value", out.value.Format())
	return out.value, nil
}
