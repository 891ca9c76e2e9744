// Package pipeline wires scanning, parsing and evaluation together with
// logging and metrics.
package pipeline

import (
	"log/slog"
	"time"

	"github.com/agenthands/minitri/pkg/compiler/ast"
	"github.com/agenthands/minitri/pkg/compiler/lexer"
	"github.com/agenthands/minitri/pkg/compiler/parser"
	"github.com/agenthands/minitri/pkg/config"
	"github.com/agenthands/minitri/pkg/interp"
	"github.com/agenthands/minitri/pkg/metrics"
	"github.com/google/uuid"
)

// Runner compiles and executes programs. The zero value uses default limits
// and discards logs.
type Runner struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	Limits  config.Limits
}

func NewRunner(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) *Runner {
	return &Runner{Logger: logger, Metrics: m, Limits: cfg.Limits}
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

// Compile scans and parses src.
func (r *Runner) Compile(src []byte) (*ast.Program, error) {
	return r.compile(r.logger(), src)
}

func (r *Runner) compile(log *slog.Logger, src []byte) (*ast.Program, error) {
	start := time.Now()
	tokens, err := lexer.Scan(src)
	r.Metrics.Observe(metrics.StageScan, time.Since(start), err)
	if err != nil {
		log.Debug("scan failed", "error", err)
		return nil, err
	}
	log.Debug("scanned", "tokens", len(tokens), "bytes", len(src))

	start = time.Now()
	p := parser.NewParser(tokens, src)
	if r.Limits.MaxNesting > 0 {
		p.MaxDepth = r.Limits.MaxNesting
	}
	prog, err := p.Parse()
	r.Metrics.Observe(metrics.StageParse, time.Since(start), err)
	if err != nil {
		log.Debug("parse failed", "error", err)
		return nil, err
	}
	return prog, nil
}

// Execute compiles src and runs it against io. The first error from any
// stage is returned unchanged.
func (r *Runner) Execute(src []byte, io interp.IO) error {
	log := r.logger().With("run_id", uuid.NewString())
	r.Metrics.RunStarted()

	prog, err := r.compile(log, src)
	if err != nil {
		return err
	}
	return r.run(log, prog, io)
}

// Run executes an already compiled program.
func (r *Runner) Run(prog *ast.Program, io interp.IO) error {
	log := r.logger().With("run_id", uuid.NewString())
	r.Metrics.RunStarted()
	return r.run(log, prog, io)
}

func (r *Runner) run(log *slog.Logger, prog *ast.Program, io interp.IO) error {
	it := interp.New(io, r.options(log)...)

	start := time.Now()
	err := it.Run(prog)
	elapsed := time.Since(start)
	r.Metrics.Observe(metrics.StageEval, elapsed, err)
	r.Metrics.AddSteps(it.Steps())

	if err != nil {
		log.Debug("run failed", "steps", it.Steps(), "elapsed", elapsed, "error", err)
		return err
	}
	log.Debug("run finished", "steps", it.Steps(), "elapsed", elapsed)
	return nil
}

func (r *Runner) options(log *slog.Logger) []interp.Option {
	opts := []interp.Option{interp.WithLogger(log)}
	// A zero Limits means defaults; an explicit zero from config
	// disables the step limit.
	if r.Limits != (config.Limits{}) {
		opts = append(opts,
			interp.WithStepLimit(r.Limits.MaxSteps),
			interp.WithMaxCallDepth(r.Limits.MaxCallDepth),
		)
	}
	return opts
}
