package ast

import "github.com/agenthands/minitri/pkg/compiler/lexer"

// Node represents any node in the Abstract Syntax Tree.
type Node interface {
	Pos() lexer.Token
}

// Command is a closed set of executable nodes.
type Command interface {
	Node
	commandNode()
}

// Declaration is a closed set of binding nodes elaborated by a let block.
type Declaration interface {
	Node
	declarationNode()
}

// Expression is a closed set of value-producing nodes.
type Expression interface {
	Node
	expressionNode()
}

// Operator is one of + - * / < > = \.
type Operator byte

const (
	OpAdd Operator = '+'
	OpSub Operator = '-'
	OpMul Operator = '*'
	OpDiv Operator = '/'
	OpLT  Operator = '<'
	OpGT  Operator = '>'
	OpEQ  Operator = '='
	OpMod Operator = '\\'
)

func (o Operator) String() string { return string(rune(o)) }

// Relational reports whether o yields a boolean.
func (o Operator) Relational() bool { return o == OpLT || o == OpGT || o == OpEQ }

// Program is the root node.
type Program struct {
	Command Command
}

func (p *Program) Pos() lexer.Token {
	if p.Command == nil {
		return lexer.Token{}
	}
	return p.Command.Pos()
}

// --- Commands ---

// SequentialCommand: First ; Second
type SequentialCommand struct {
	First  Command
	Second Command
}

func (c *SequentialCommand) Pos() lexer.Token { return c.First.Pos() }
func (c *SequentialCommand) commandNode()     {}

// IfCommand: if Cond then Then else Else
type IfCommand struct {
	Token lexer.Token
	Cond  Expression
	Then  Command
	Else  Command
}

func (c *IfCommand) Pos() lexer.Token { return c.Token }
func (c *IfCommand) commandNode()     {}

// WhileCommand: while Cond do Body
type WhileCommand struct {
	Token lexer.Token
	Cond  Expression
	Body  Command
}

func (c *WhileCommand) Pos() lexer.Token { return c.Token }
func (c *WhileCommand) commandNode()     {}

// LetCommand: let Decl in Body
type LetCommand struct {
	Token lexer.Token
	Decl  Declaration
	Body  Command
}

func (c *LetCommand) Pos() lexer.Token { return c.Token }
func (c *LetCommand) commandNode()     {}

// AssignCommand: Name := Value
type AssignCommand struct {
	Token lexer.Token
	Name  string
	Value Expression
}

func (c *AssignCommand) Pos() lexer.Token { return c.Token }
func (c *AssignCommand) commandNode()     {}

// CallCommand: Name(Arg). Arg is nil for an empty argument list.
type CallCommand struct {
	Token lexer.Token
	Name  string
	Arg   Expression
}

func (c *CallCommand) Pos() lexer.Token { return c.Token }
func (c *CallCommand) commandNode()     {}

// ReturnCommand: return Value
type ReturnCommand struct {
	Token lexer.Token
	Value Expression
}

func (c *ReturnCommand) Pos() lexer.Token { return c.Token }
func (c *ReturnCommand) commandNode()     {}

// --- Declarations ---

// ConstDeclaration: const Name ~ Value
type ConstDeclaration struct {
	Token lexer.Token
	Name  string
	Value Expression
}

func (d *ConstDeclaration) Pos() lexer.Token { return d.Token }
func (d *ConstDeclaration) declarationNode() {}

// VarDeclaration: var Name : Type
type VarDeclaration struct {
	Token lexer.Token
	Name  string
	Type  string
}

func (d *VarDeclaration) Pos() lexer.Token { return d.Token }
func (d *VarDeclaration) declarationNode() {}

// SequentialDeclaration: First ; Second
type SequentialDeclaration struct {
	First  Declaration
	Second Declaration
}

func (d *SequentialDeclaration) Pos() lexer.Token { return d.First.Pos() }
func (d *SequentialDeclaration) declarationNode() {}

// Param is one formal parameter of a function.
type Param struct {
	Name string
	Type string
}

// FuncDeclaration: func Name(Params) : ReturnType Body
type FuncDeclaration struct {
	Token      lexer.Token
	Name       string
	Params     []Param
	ReturnType string
	Body       Command
}

func (d *FuncDeclaration) Pos() lexer.Token { return d.Token }
func (d *FuncDeclaration) declarationNode() {}

// --- Expressions ---

type IntegerLiteral struct {
	Token lexer.Token
	Value int64
}

func (e *IntegerLiteral) Pos() lexer.Token { return e.Token }
func (e *IntegerLiteral) expressionNode()  {}

// VnameExpression is a variable reference.
type VnameExpression struct {
	Token lexer.Token
	Name  string
}

func (e *VnameExpression) Pos() lexer.Token { return e.Token }
func (e *VnameExpression) expressionNode()  {}

type UnaryExpression struct {
	Token   lexer.Token
	Op      Operator
	Operand Expression
}

func (e *UnaryExpression) Pos() lexer.Token { return e.Token }
func (e *UnaryExpression) expressionNode()  {}

type BinaryExpression struct {
	Token lexer.Token
	Op    Operator
	Left  Expression
	Right Expression
}

func (e *BinaryExpression) Pos() lexer.Token { return e.Left.Pos() }
func (e *BinaryExpression) expressionNode()  {}

// CallExpression: Name(Arg). Arg is nil for an empty argument list.
type CallExpression struct {
	Token lexer.Token
	Name  string
	Arg   Expression
}

func (e *CallExpression) Pos() lexer.Token { return e.Token }
func (e *CallExpression) expressionNode()  {}

// ArgList chains call arguments right-associatively:
// a, b, c is ArgList{a, ArgList{b, c}}.
type ArgList struct {
	Head Expression
	Tail Expression
}

func (e *ArgList) Pos() lexer.Token { return e.Head.Pos() }
func (e *ArgList) expressionNode()  {}

// Args flattens an argument chain. A nil arg yields no arguments.
func Args(arg Expression) []Expression {
	var out []Expression
	for arg != nil {
		list, ok := arg.(*ArgList)
		if !ok {
			return append(out, arg)
		}
		out = append(out, list.Head)
		arg = list.Tail
	}
	return out
}

// Chain builds the right-associated argument chain for args.
func Chain(args []Expression) Expression {
	if len(args) == 0 {
		return nil
	}
	acc := args[len(args)-1]
	for i := len(args) - 2; i >= 0; i-- {
		acc = &ArgList{Head: args[i], Tail: acc}
	}
	return acc
}
