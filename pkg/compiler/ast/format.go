package ast

import (
	"strconv"
	"strings"
)

// Format renders node as Mini Triangle source. Parsing the output yields a
// tree Equal to any tree the parser produced.
func Format(node Node) string {
	p := &printer{}
	switch n := node.(type) {
	case *Program:
		p.command(n.Command, false)
	case Command:
		p.command(n, false)
	case Declaration:
		p.declaration(n)
	case Expression:
		p.expression(n)
	}
	return p.b.String()
}

type printer struct {
	b      strings.Builder
	indent int
}

func (p *printer) write(s string) { p.b.WriteString(s) }

func (p *printer) newline() {
	p.b.WriteByte('\n')
	p.b.WriteString(strings.Repeat("  ", p.indent))
}

// command prints c; single is set where the grammar only admits a single
// command, in which case a sequence is wrapped in begin ... end.
func (p *printer) command(c Command, single bool) {
	if seq, ok := c.(*SequentialCommand); ok {
		if single {
			p.write("begin")
			p.indent++
			p.newline()
			p.sequence(seq)
			p.indent--
			p.newline()
			p.write("end")
			return
		}
		p.sequence(seq)
		return
	}

	switch n := c.(type) {
	case *IfCommand:
		p.write("if ")
		p.expression(n.Cond)
		p.write(" then ")
		p.command(n.Then, true)
		p.write(" else ")
		p.command(n.Else, true)
	case *WhileCommand:
		p.write("while ")
		p.expression(n.Cond)
		p.write(" do ")
		p.command(n.Body, true)
	case *LetCommand:
		p.write("let")
		p.indent++
		p.newline()
		p.declaration(n.Decl)
		p.indent--
		p.newline()
		p.write("in ")
		p.command(n.Body, true)
	case *AssignCommand:
		p.write(n.Name)
		p.write(" := ")
		p.expression(n.Value)
	case *CallCommand:
		p.call(n.Name, n.Arg)
	case *ReturnCommand:
		p.write("return ")
		p.expression(n.Value)
	}
}

// sequence prints a command chain. The parser builds chains left-nested, so
// a nested sequence on the right must keep its own begin ... end.
func (p *printer) sequence(seq *SequentialCommand) {
	p.command(seq.First, false)
	p.write(";")
	p.newline()
	p.command(seq.Second, true)
}

func (p *printer) declaration(d Declaration) {
	switch n := d.(type) {
	case *SequentialDeclaration:
		p.declaration(n.First)
		p.write(";")
		p.newline()
		p.declaration(n.Second)
	case *ConstDeclaration:
		p.write("const ")
		p.write(n.Name)
		p.write(" ~ ")
		p.expression(n.Value)
	case *VarDeclaration:
		p.write("var ")
		p.write(n.Name)
		p.write(": ")
		p.write(n.Type)
	case *FuncDeclaration:
		p.write("func ")
		p.write(n.Name)
		p.write("(")
		for i, param := range n.Params {
			if i > 0 {
				p.write(", ")
			}
			p.write(param.Name)
			p.write(": ")
			p.write(param.Type)
		}
		p.write("): ")
		p.write(n.ReturnType)
		p.indent++
		p.newline()
		p.command(n.Body, true)
		p.indent--
	}
}

const (
	precRelational = iota + 1
	precAdditive
	precMultiplicative
	precUnary
	precPrimary
)

func precedence(e Expression) int {
	switch n := e.(type) {
	case *BinaryExpression:
		switch n.Op {
		case OpLT, OpGT, OpEQ:
			return precRelational
		case OpAdd, OpSub:
			return precAdditive
		default:
			return precMultiplicative
		}
	case *UnaryExpression:
		return precUnary
	default:
		return precPrimary
	}
}

func (p *printer) expression(e Expression) {
	switch n := e.(type) {
	case *IntegerLiteral:
		p.write(strconv.FormatInt(n.Value, 10))
	case *VnameExpression:
		p.write(n.Name)
	case *UnaryExpression:
		p.write(n.Op.String())
		p.operand(n.Operand, precUnary)
	case *BinaryExpression:
		level := precedence(n)
		left := level
		if level == precRelational {
			// relational operators do not chain
			left = precAdditive
		}
		p.operand(n.Left, left)
		p.write(" ")
		p.write(n.Op.String())
		p.write(" ")
		p.operand(n.Right, level+1)
	case *CallExpression:
		p.call(n.Name, n.Arg)
	case *ArgList:
		p.arguments(n)
	}
}

// operand prints e, parenthesized when it binds looser than min.
func (p *printer) operand(e Expression, min int) {
	if precedence(e) < min {
		p.write("(")
		p.expression(e)
		p.write(")")
		return
	}
	p.expression(e)
}

func (p *printer) call(name string, arg Expression) {
	p.write(name)
	p.write("(")
	if arg != nil {
		p.arguments(arg)
	}
	p.write(")")
}

func (p *printer) arguments(arg Expression) {
	for i, a := range Args(arg) {
		if i > 0 {
			p.write(", ")
		}
		p.expression(a)
	}
}
