package interp

import (
	"fmt"
	"log/slog"

	"github.com/agenthands/minitri/pkg/compiler/ast"
)

const (
	DefaultMaxCallDepth = 256
	DefaultStepLimit    = 10_000_000
)

// IO is the integer channel used by getint and putint.
type IO interface {
	ReadInt() (int64, error)
	WriteInt(n int64) error
}

// Interpreter walks a parsed program against a frame stack.
//
// An Interpreter is not safe for concurrent use. Run resets it, so one value
// can execute many programs in sequence.
type Interpreter struct {
	io       IO
	env      Env
	builtins map[string]Builtin
	logger   *slog.Logger

	maxCallDepth int
	stepLimit    int64

	steps     int64
	callDepth int
}

type Option func(*Interpreter)

// WithLogger sets the logger for frame and call tracing at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(it *Interpreter) {
		if l != nil {
			it.logger = l
		}
	}
}

// WithMaxCallDepth bounds nested function invocations. Zero disables the limit.
func WithMaxCallDepth(n int) Option {
	return func(it *Interpreter) { it.maxCallDepth = n }
}

// WithStepLimit bounds the number of evaluation steps per Run. Zero disables
// the limit.
func WithStepLimit(n int64) Option {
	return func(it *Interpreter) { it.stepLimit = n }
}

// WithBuiltin registers or replaces a built-in procedure.
func WithBuiltin(name string, fn Builtin) Option {
	return func(it *Interpreter) { it.builtins[name] = fn }
}

func New(io IO, opts ...Option) *Interpreter {
	it := &Interpreter{
		io:           io,
		builtins:     defaultBuiltins(),
		logger:       slog.New(slog.DiscardHandler),
		maxCallDepth: DefaultMaxCallDepth,
		stepLimit:    DefaultStepLimit,
	}
	for _, opt := range opts {
		opt(it)
	}
	return it
}

// Run executes prog. The root command must be a let block.
func (it *Interpreter) Run(prog *ast.Program) error {
	if prog == nil || prog.Command == nil {
		return ErrNotLetProgram
	}
	if _, ok := prog.Command.(*ast.LetCommand); !ok {
		return fmt.Errorf("%w, got %T", ErrNotLetProgram, prog.Command)
	}
	it.Reset()
	_, err := it.exec(prog.Command)
	it.logger.Debug("run finished", "steps", it.steps, "error", err)
	return err
}

// Reset clears all runtime state so the interpreter can be reused.
func (it *Interpreter) Reset() {
	it.env.reset()
	it.steps = 0
	it.callDepth = 0
}

// Steps reports how many steps the last Run consumed.
func (it *Interpreter) Steps() int64 { return it.steps }

// Depth reports the number of active frames.
func (it *Interpreter) Depth() int { return it.env.Depth() }

// tick charges one step for n. Pos walks the left spine of sequences and
// binary expressions, so it is only resolved once the budget is spent.
func (it *Interpreter) tick(n ast.Node) error {
	it.steps++
	if it.stepLimit > 0 && it.steps > it.stepLimit {
		return runtimeErr(n.Pos(), "", ErrStepLimit)
	}
	return nil
}

func (it *Interpreter) push() {
	it.env.Push()
	it.logger.Debug("frame push", "depth", it.env.Depth())
}

func (it *Interpreter) pop() {
	it.env.Pop()
	it.logger.Debug("frame pop", "depth", it.env.Depth())
}
