package pipeline_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/agenthands/minitri/pkg/compiler/lexer"
	"github.com/agenthands/minitri/pkg/compiler/parser"
	"github.com/agenthands/minitri/pkg/config"
	"github.com/agenthands/minitri/pkg/interp"
	"github.com/agenthands/minitri/pkg/metrics"
	"github.com/agenthands/minitri/pkg/pipeline"
	"github.com/agenthands/minitri/pkg/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const factorial = `! Factorial
let var x: Integer;
    var fact: Integer
in
  begin
    getint(x);
    if x = 0 then
       putint(1)
    else
      begin
        fact := 1;
        while x > 0 do
          begin
            fact := fact * x;
            x := x - 1
          end;
        putint(fact)
      end
  end`

func execute(t *testing.T, r *pipeline.Runner, src, input string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := r.Execute([]byte(src), stdlib.NewConsole(strings.NewReader(input), &out))
	return out.String(), err
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		input string
		want  string
	}{
		{"sum", "let var x: Integer; var y: Integer; var z: Integer in begin getint(x); y := 2; z := x + y; putint(z) end", "3\n", "5\n"},
		{"factorial", factorial, "5", "120\n"},
		{"conditional zero", "let var x: Integer in begin getint(x); if x = 0 then putint(1) else putint(0) end", "0", "1\n"},
		{"conditional four", "let var x: Integer in begin getint(x); if x = 0 then putint(1) else putint(0) end", "4", "0\n"},
		{"shadowing", "let var x: Integer in begin x := 1; let var x: Integer in x := 7; putint(x) end", "", "1\n"},
	}

	r := &pipeline.Runner{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, r, tt.src, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestExecuteStageErrors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	r := &pipeline.Runner{Metrics: m}

	_, err := execute(t, r, "let var x: Integer in x := 1 # 2", "")
	var serr *lexer.ScanError
	assert.ErrorAs(t, err, &serr)

	_, err = execute(t, r, "let var x: Integer in x := ", "")
	var perr *parser.ParseError
	require.ErrorAs(t, err, &perr)
	assert.True(t, parser.IsIncomplete(err))

	out, err := execute(t, r, "let var x: Integer in begin putint(2); getint(x) end", "")
	assert.ErrorIs(t, err, stdlib.ErrNoInput)
	var rerr *interp.RuntimeError
	assert.ErrorAs(t, err, &rerr)
	assert.Equal(t, "2\n", out)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StageErrors.WithLabelValues(metrics.StageScan)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StageErrors.WithLabelValues(metrics.StageParse)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StageErrors.WithLabelValues(metrics.StageEval)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Runs))
}

func TestLimits(t *testing.T) {
	limits := config.Default().Limits
	limits.MaxSteps = 500
	r := &pipeline.Runner{Limits: limits}

	_, err := execute(t, r, "let var x: Integer in while 1 = 1 do x := 1", "")
	assert.ErrorIs(t, err, interp.ErrStepLimit)

	limits.MaxNesting = 8
	r = &pipeline.Runner{Limits: limits}
	_, err = execute(t, r, "let var x: Integer in x := ((((((((((1))))))))))", "")
	assert.ErrorIs(t, err, parser.ErrTooDeep)
}

func TestRunIDInLogs(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := pipeline.NewRunner(config.Default(), logger, nil)

	_, err := execute(t, r, factorial, "3")
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "run_id=")
	assert.Contains(t, logs.String(), "run finished")
}

func TestCompileThenRun(t *testing.T) {
	r := &pipeline.Runner{}
	prog, err := r.Compile([]byte(factorial))
	require.NoError(t, err)

	for input, want := range map[string]string{"1": "1\n", "6": "720\n"} {
		var out bytes.Buffer
		require.NoError(t, r.Run(prog, stdlib.NewConsole(strings.NewReader(input), &out)))
		assert.Equal(t, want, out.String())
	}
}
