package parser

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/agenthands/minitri/pkg/compiler/ast"
	"github.com/agenthands/minitri/pkg/compiler/lexer"
)

// DefaultMaxDepth bounds syntactic nesting: parentheses, prefix operators and
// commands nested inside let, if and while. Sequences joined by ';' and
// left-associative operator chains are parsed by loops and do not count.
const DefaultMaxDepth = 512

var (
	ErrTooDeep  = errors.New("parser: nesting too deep")
	ErrIntRange = errors.New("parser: integer literal out of range")
)

// ParseError reports the token at which the grammar was violated.
type ParseError struct {
	Offset   uint32
	Line     uint32
	Found    lexer.Kind
	Text     string
	Expected string
	Err      error
}

func (e *ParseError) Error() string {
	found := e.Found.String()
	if e.Text != "" {
		found = fmt.Sprintf("%s(%s)", found, e.Text)
	}
	msg := fmt.Sprintf("parser: found bad token %s at offset %d (line %d)", found, e.Offset, e.Line)
	if e.Expected != "" {
		msg += ", expected " + e.Expected
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// IsIncomplete reports whether err is a parse error caused by running out of
// input, meaning more source could still make the program valid.
func IsIncomplete(err error) bool {
	var perr *ParseError
	return errors.As(err, &perr) && perr.Found == lexer.KindEOT
}

// Parser is a recursive-descent parser with a single token of lookahead.
// It never re-reads a consumed token.
type Parser struct {
	tokens []lexer.Token
	src    []byte
	pos    int

	cur  lexer.Token
	prev lexer.Token

	depth    int
	MaxDepth int
}

// NewParser creates a parser over a scanned token sequence.
func NewParser(tokens []lexer.Token, src []byte) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != lexer.KindEOT {
		tokens = append(tokens, lexer.Token{Kind: lexer.KindEOT, Offset: uint32(len(src))})
	}
	return &Parser{
		tokens:   tokens,
		src:      src,
		cur:      tokens[0],
		MaxDepth: DefaultMaxDepth,
	}
}

// Parse scans and parses src in one step.
func Parse(src []byte) (*ast.Program, error) {
	tokens, err := lexer.Scan(src)
	if err != nil {
		return nil, err
	}
	return NewParser(tokens, src).Parse()
}

// Parse parses a whole program: Command EOT. No partial tree is returned on
// error.
func (p *Parser) Parse() (*ast.Program, error) {
	cmd, err := p.parseCommand()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != lexer.KindEOT {
		return nil, p.fail("end of text", nil)
	}
	return &ast.Program{Command: cmd}, nil
}

func (p *Parser) nextToken() {
	p.prev = p.cur
	// EOT is sticky.
	if p.cur.Kind != lexer.KindEOT {
		p.pos++
		p.cur = p.tokens[p.pos]
	}
}

func (p *Parser) expect(kind lexer.Kind, what string) (lexer.Token, error) {
	tok := p.cur
	if tok.Kind != kind {
		return tok, p.fail(what, nil)
	}
	p.nextToken()
	return tok, nil
}

func (p *Parser) fail(expected string, err error) *ParseError {
	perr := &ParseError{
		Offset:   p.cur.Offset,
		Line:     p.cur.Line,
		Found:    p.cur.Kind,
		Expected: expected,
		Err:      err,
	}
	switch p.cur.Kind {
	case lexer.KindIdentifier, lexer.KindIntLiteral, lexer.KindOperator:
		perr.Text = p.cur.Text(p.src)
	}
	return perr
}

func (p *Parser) enter() error {
	p.depth++
	if p.MaxDepth > 0 && p.depth > p.MaxDepth {
		return p.fail("", ErrTooDeep)
	}
	return nil
}

func (p *Parser) leave() { p.depth-- }

func (p *Parser) operator() ast.Operator {
	return ast.Operator(p.src[p.cur.Offset])
}

// --- Commands ---

func canStartCommand(k lexer.Kind) bool {
	switch k {
	case lexer.KindIdentifier, lexer.KindIf, lexer.KindWhile, lexer.KindLet, lexer.KindBegin, lexer.KindReturn:
		return true
	}
	return false
}

// parseCommand: single-Command (';' single-Command)*
// A ';' not followed by the start of a command ends the sequence.
func (p *Parser) parseCommand() (ast.Command, error) {
	cmd, err := p.parseSingleCommand()
	if err != nil {
		return nil, err
	}
	for p.cur.Kind == lexer.KindSemicolon {
		p.nextToken()
		if !canStartCommand(p.cur.Kind) {
			break
		}
		next, err := p.parseSingleCommand()
		if err != nil {
			return nil, err
		}
		cmd = &ast.SequentialCommand{First: cmd, Second: next}
	}
	return cmd, nil
}

func (p *Parser) parseSingleCommand() (ast.Command, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	tok := p.cur
	switch tok.Kind {
	case lexer.KindIdentifier:
		p.nextToken()
		name := tok.Text(p.src)
		switch p.cur.Kind {
		case lexer.KindBecomes:
			p.nextToken()
			value, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			return &ast.AssignCommand{Token: tok, Name: name, Value: value}, nil
		case lexer.KindLParen:
			p.nextToken()
			arg, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			return &ast.CallCommand{Token: tok, Name: name, Arg: arg}, nil
		default:
			return nil, p.fail("':=' or '('", nil)
		}

	case lexer.KindIf:
		p.nextToken()
		cond, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.KindThen, "'then'"); err != nil {
			return nil, err
		}
		thenCmd, err := p.parseSingleCommand()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.KindElse, "'else'"); err != nil {
			return nil, err
		}
		elseCmd, err := p.parseSingleCommand()
		if err != nil {
			return nil, err
		}
		return &ast.IfCommand{Token: tok, Cond: cond, Then: thenCmd, Else: elseCmd}, nil

	case lexer.KindWhile:
		p.nextToken()
		cond, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.KindDo, "'do'"); err != nil {
			return nil, err
		}
		body, err := p.parseSingleCommand()
		if err != nil {
			return nil, err
		}
		return &ast.WhileCommand{Token: tok, Cond: cond, Body: body}, nil

	case lexer.KindLet:
		p.nextToken()
		decl, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.KindIn, "'in'"); err != nil {
			return nil, err
		}
		body, err := p.parseSingleCommand()
		if err != nil {
			return nil, err
		}
		return &ast.LetCommand{Token: tok, Decl: decl, Body: body}, nil

	case lexer.KindBegin:
		p.nextToken()
		cmd, err := p.parseCommand()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.KindEnd, "'end'"); err != nil {
			return nil, err
		}
		return cmd, nil

	case lexer.KindReturn:
		p.nextToken()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.ReturnCommand{Token: tok, Value: value}, nil

	default:
		return nil, p.fail("command", nil)
	}
}

// parseArgs parses the argument list after '(' up to and including ')'.
func (p *Parser) parseArgs() (ast.Expression, error) {
	if p.cur.Kind == lexer.KindRParen {
		p.nextToken()
		return nil, nil
	}

	var args []ast.Expression
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.cur.Kind != lexer.KindComma {
			break
		}
		p.nextToken()
	}

	if _, err := p.expect(lexer.KindRParen, "',' or ')'"); err != nil {
		return nil, err
	}
	return ast.Chain(args), nil
}

// --- Declarations ---

func canStartDeclaration(k lexer.Kind) bool {
	return k == lexer.KindConst || k == lexer.KindVar || k == lexer.KindFunc
}

// parseDeclaration: single-Declaration (';' single-Declaration)*
// A function whose body ended with 'end' may be followed directly by the
// next declaration.
func (p *Parser) parseDeclaration() (ast.Declaration, error) {
	decl, err := p.parseSingleDeclaration()
	if err != nil {
		return nil, err
	}
	for {
		if p.cur.Kind == lexer.KindSemicolon {
			p.nextToken()
			if !canStartDeclaration(p.cur.Kind) {
				break
			}
		} else if p.prev.Kind != lexer.KindEnd || !canStartDeclaration(p.cur.Kind) {
			break
		}

		next, err := p.parseSingleDeclaration()
		if err != nil {
			return nil, err
		}
		decl = &ast.SequentialDeclaration{First: decl, Second: next}
	}
	return decl, nil
}

func (p *Parser) parseSingleDeclaration() (ast.Declaration, error) {
	tok := p.cur
	switch tok.Kind {
	case lexer.KindConst:
		p.nextToken()
		name, err := p.expect(lexer.KindIdentifier, "identifier")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.KindIs, "'~'"); err != nil {
			return nil, err
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.ConstDeclaration{Token: tok, Name: name.Text(p.src), Value: value}, nil

	case lexer.KindVar:
		p.nextToken()
		name, err := p.expect(lexer.KindIdentifier, "identifier")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.KindColon, "':'"); err != nil {
			return nil, err
		}
		typ, err := p.expect(lexer.KindIdentifier, "type name")
		if err != nil {
			return nil, err
		}
		return &ast.VarDeclaration{Token: tok, Name: name.Text(p.src), Type: typ.Text(p.src)}, nil

	case lexer.KindFunc:
		return p.parseFuncDeclaration()

	default:
		return nil, p.fail("declaration", nil)
	}
}

// parseFuncDeclaration: func Identifier '(' [Param (',' Param)*] ')' ':' Type single-Command
func (p *Parser) parseFuncDeclaration() (ast.Declaration, error) {
	tok := p.cur
	p.nextToken()

	name, err := p.expect(lexer.KindIdentifier, "function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KindLParen, "'('"); err != nil {
		return nil, err
	}

	var params []ast.Param
	if p.cur.Kind != lexer.KindRParen {
		for {
			param, err := p.parseParam()
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if p.cur.Kind != lexer.KindComma {
				break
			}
			p.nextToken()
		}
	}
	if _, err := p.expect(lexer.KindRParen, "',' or ')'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KindColon, "':'"); err != nil {
		return nil, err
	}
	ret, err := p.expect(lexer.KindIdentifier, "return type")
	if err != nil {
		return nil, err
	}

	body, err := p.parseSingleCommand()
	if err != nil {
		return nil, err
	}

	return &ast.FuncDeclaration{
		Token:      tok,
		Name:       name.Text(p.src),
		Params:     params,
		ReturnType: ret.Text(p.src),
		Body:       body,
	}, nil
}

func (p *Parser) parseParam() (ast.Param, error) {
	name, err := p.expect(lexer.KindIdentifier, "parameter name")
	if err != nil {
		return ast.Param{}, err
	}
	if _, err := p.expect(lexer.KindColon, "':'"); err != nil {
		return ast.Param{}, err
	}
	typ, err := p.expect(lexer.KindIdentifier, "type name")
	if err != nil {
		return ast.Param{}, err
	}
	return ast.Param{Name: name.Text(p.src), Type: typ.Text(p.src)}, nil
}

// --- Expressions ---

func (p *Parser) atOperator(ops ...ast.Operator) bool {
	if p.cur.Kind != lexer.KindOperator {
		return false
	}
	op := p.operator()
	for _, o := range ops {
		if op == o {
			return true
		}
	}
	return false
}

// parseExpression: Additive [('<' | '>' | '=') Additive]
func (p *Parser) parseExpression() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if !p.atOperator(ast.OpLT, ast.OpGT, ast.OpEQ) {
		return left, nil
	}

	opTok := p.cur
	op := p.operator()
	p.nextToken()
	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if p.atOperator(ast.OpLT, ast.OpGT, ast.OpEQ) {
		return nil, p.fail("a single relational operator per expression", nil)
	}
	return &ast.BinaryExpression{Token: opTok, Op: op, Left: left, Right: right}, nil
}

// parseAdditive: Mult (('+' | '-') Mult)*
func (p *Parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.atOperator(ast.OpAdd, ast.OpSub) {
		opTok := p.cur
		op := p.operator()
		p.nextToken()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Token: opTok, Op: op, Left: left, Right: right}
	}
	return left, nil
}

// parseMultiplicative: Unary (('*' | '/' | '\') Unary)*
func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.atOperator(ast.OpMul, ast.OpDiv, ast.OpMod) {
		opTok := p.cur
		op := p.operator()
		p.nextToken()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Token: opTok, Op: op, Left: left, Right: right}
	}
	return left, nil
}

// parseUnary: ('+' | '-') Unary | Primary
// Other operators have no prefix meaning and are rejected here.
func (p *Parser) parseUnary() (ast.Expression, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	if p.cur.Kind != lexer.KindOperator {
		return p.parsePrimary()
	}
	if !p.atOperator(ast.OpAdd, ast.OpSub) {
		return nil, p.fail("'+', '-' or an operand", nil)
	}

	tok := p.cur
	op := p.operator()
	p.nextToken()
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.UnaryExpression{Token: tok, Op: op, Operand: operand}, nil
}

// parsePrimary: IntLiteral | Identifier ['(' [ArgList] ')'] | '(' Expression ')'
func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.cur
	switch tok.Kind {
	case lexer.KindIntLiteral:
		val, err := strconv.ParseInt(tok.Text(p.src), 10, 64)
		if err != nil {
			return nil, p.fail("", ErrIntRange)
		}
		p.nextToken()
		return &ast.IntegerLiteral{Token: tok, Value: val}, nil

	case lexer.KindIdentifier:
		p.nextToken()
		name := tok.Text(p.src)
		if p.cur.Kind != lexer.KindLParen {
			return &ast.VnameExpression{Token: tok, Name: name}, nil
		}
		p.nextToken()
		arg, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		return &ast.CallExpression{Token: tok, Name: name, Arg: arg}, nil

	case lexer.KindLParen:
		p.nextToken()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.KindRParen, "')'"); err != nil {
			return nil, err
		}
		return expr, nil

	default:
		return nil, p.fail("expression", nil)
	}
}
