// Package backend renders a parsed program in an output format.
package backend

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/agenthands/minitri/pkg/compiler/ast"
	"gopkg.in/yaml.v3"
)

var ErrUnknownBackend = errors.New("backend: unknown backend")

// Backend writes a program to w.
type Backend interface {
	Name() string
	Emit(w io.Writer, prog *ast.Program) error
}

var registry = map[string]Backend{
	Source{}.Name(): Source{},
	YAML{}.Name():   YAML{},
}

// Lookup returns the backend registered under name.
func Lookup(name string) (Backend, error) {
	b, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (have %v)", ErrUnknownBackend, name, Names())
	}
	return b, nil
}

// Names lists the registered backends in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Source pretty-prints the program as Mini Triangle text.
type Source struct{}

func (Source) Name() string { return "source" }

func (Source) Emit(w io.Writer, prog *ast.Program) error {
	_, err := io.WriteString(w, ast.Format(prog)+"\n")
	return err
}

// YAML dumps the tree with one mapping per node, keyed by kind.
type YAML struct{}

func (YAML) Name() string { return "yaml" }

func (YAML) Emit(w io.Writer, prog *ast.Program) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(emitNode(prog)); err != nil {
		return err
	}
	return enc.Close()
}

type mapping struct{ n *yaml.Node }

func newMapping(kind string, pos *uint32) mapping {
	m := mapping{n: &yaml.Node{Kind: yaml.MappingNode}}
	m.str("kind", kind)
	if pos != nil {
		m.add("line", scalar(strconv.FormatUint(uint64(*pos), 10), "!!int"))
	}
	return m
}

func (m mapping) add(key string, v *yaml.Node) {
	m.n.Content = append(m.n.Content, scalar(key, "!!str"), v)
}

func (m mapping) str(key, v string) { m.add(key, scalar(v, "!!str")) }

func scalar(v, tag string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v}
}

func emitNode(node ast.Node) *yaml.Node {
	if node == nil {
		return scalar("null", "!!null")
	}
	line := node.Pos().Line

	switch n := node.(type) {
	case *ast.Program:
		m := newMapping("Program", nil)
		m.add("command", emitNode(n.Command))
		return m.n

	case *ast.SequentialCommand:
		m := newMapping("SequentialCommand", &line)
		m.add("first", emitNode(n.First))
		m.add("second", emitNode(n.Second))
		return m.n
	case *ast.IfCommand:
		m := newMapping("IfCommand", &line)
		m.add("cond", emitNode(n.Cond))
		m.add("then", emitNode(n.Then))
		m.add("else", emitNode(n.Else))
		return m.n
	case *ast.WhileCommand:
		m := newMapping("WhileCommand", &line)
		m.add("cond", emitNode(n.Cond))
		m.add("body", emitNode(n.Body))
		return m.n
	case *ast.LetCommand:
		m := newMapping("LetCommand", &line)
		m.add("decl", emitNode(n.Decl))
		m.add("body", emitNode(n.Body))
		return m.n
	case *ast.AssignCommand:
		m := newMapping("AssignCommand", &line)
		m.str("name", n.Name)
		m.add("value", emitNode(n.Value))
		return m.n
	case *ast.CallCommand:
		m := newMapping("CallCommand", &line)
		m.str("name", n.Name)
		m.add("args", emitArgs(n.Arg))
		return m.n
	case *ast.ReturnCommand:
		m := newMapping("ReturnCommand", &line)
		m.add("value", emitNode(n.Value))
		return m.n

	case *ast.SequentialDeclaration:
		m := newMapping("SequentialDeclaration", &line)
		m.add("first", emitNode(n.First))
		m.add("second", emitNode(n.Second))
		return m.n
	case *ast.ConstDeclaration:
		m := newMapping("ConstDeclaration", &line)
		m.str("name", n.Name)
		m.add("value", emitNode(n.Value))
		return m.n
	case *ast.VarDeclaration:
		m := newMapping("VarDeclaration", &line)
		m.str("name", n.Name)
		m.str("type", n.Type)
		return m.n
	case *ast.FuncDeclaration:
		m := newMapping("FuncDeclaration", &line)
		m.str("name", n.Name)
		params := &yaml.Node{Kind: yaml.SequenceNode}
		for _, p := range n.Params {
			pm := mapping{n: &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle}}
			pm.str("name", p.Name)
			pm.str("type", p.Type)
			params.Content = append(params.Content, pm.n)
		}
		m.add("params", params)
		m.str("returns", n.ReturnType)
		m.add("body", emitNode(n.Body))
		return m.n

	case *ast.IntegerLiteral:
		m := newMapping("IntegerLiteral", &line)
		m.add("value", scalar(strconv.FormatInt(n.Value, 10), "!!int"))
		return m.n
	case *ast.VnameExpression:
		m := newMapping("VnameExpression", &line)
		m.str("name", n.Name)
		return m.n
	case *ast.UnaryExpression:
		m := newMapping("UnaryExpression", &line)
		m.str("op", n.Op.String())
		m.add("operand", emitNode(n.Operand))
		return m.n
	case *ast.BinaryExpression:
		m := newMapping("BinaryExpression", &line)
		m.str("op", n.Op.String())
		m.add("left", emitNode(n.Left))
		m.add("right", emitNode(n.Right))
		return m.n
	case *ast.CallExpression:
		m := newMapping("CallExpression", &line)
		m.str("name", n.Name)
		m.add("args", emitArgs(n.Arg))
		return m.n
	case *ast.ArgList:
		return emitArgs(n)

	default:
		return scalar(fmt.Sprintf("%T", node), "!!str")
	}
}

// emitArgs flattens an argument chain into a sequence.
func emitArgs(arg ast.Expression) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, a := range ast.Args(arg) {
		seq.Content = append(seq.Content, emitNode(a))
	}
	return seq
}
