package backend_test

import (
	"bytes"
	"testing"

	"github.com/agenthands/minitri/pkg/compiler/ast"
	"github.com/agenthands/minitri/pkg/compiler/backend"
	"github.com/agenthands/minitri/pkg/compiler/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sample = `let var x: Integer;
    func inc(n: Integer): Integer return n + 1
in begin getint(x); putint(inc(-x)) end`

func TestLookup(t *testing.T) {
	b, err := backend.Lookup("yaml")
	require.NoError(t, err)
	assert.Equal(t, "yaml", b.Name())

	_, err = backend.Lookup("bytecode")
	assert.ErrorIs(t, err, backend.ErrUnknownBackend)

	assert.Equal(t, []string{"source", "yaml"}, backend.Names())
}

func TestSourceBackendReparses(t *testing.T) {
	prog, err := parser.Parse([]byte(sample))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, backend.Source{}.Emit(&out, prog))

	again, err := parser.Parse(out.Bytes())
	require.NoError(t, err)
	assert.True(t, ast.Equal(prog, again))
}

type yamlNode struct {
	Kind    string     `yaml:"kind"`
	Line    int        `yaml:"line"`
	Name    string     `yaml:"name"`
	Op      string     `yaml:"op"`
	Value   any        `yaml:"value"`
	Command *yamlNode  `yaml:"command"`
	Decl    *yamlNode  `yaml:"decl"`
	Body    *yamlNode  `yaml:"body"`
	First   *yamlNode  `yaml:"first"`
	Second  *yamlNode  `yaml:"second"`
	Operand *yamlNode  `yaml:"operand"`
	Left    *yamlNode  `yaml:"left"`
	Right   *yamlNode  `yaml:"right"`
	Args    []yamlNode `yaml:"args"`
	Params  []struct {
		Name string `yaml:"name"`
		Type string `yaml:"type"`
	} `yaml:"params"`
	Returns string `yaml:"returns"`
}

func TestYAMLBackend(t *testing.T) {
	prog, err := parser.Parse([]byte(sample))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, backend.YAML{}.Emit(&out, prog))

	var root yamlNode
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &root))

	assert.Equal(t, "Program", root.Kind)
	let := root.Command
	require.NotNil(t, let)
	assert.Equal(t, "LetCommand", let.Kind)
	assert.Equal(t, 1, let.Line)

	require.NotNil(t, let.Decl)
	assert.Equal(t, "SequentialDeclaration", let.Decl.Kind)
	fn := let.Decl.Second
	require.NotNil(t, fn)
	assert.Equal(t, "FuncDeclaration", fn.Kind)
	assert.Equal(t, "inc", fn.Name)
	assert.Equal(t, "Integer", fn.Returns)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "n", fn.Params[0].Name)
	assert.Equal(t, 2, fn.Line)

	seq := let.Body
	require.NotNil(t, seq)
	assert.Equal(t, "SequentialCommand", seq.Kind)
	put := seq.Second
	require.NotNil(t, put)
	assert.Equal(t, "CallCommand", put.Kind)
	assert.Equal(t, 3, put.Line)
	require.Len(t, put.Args, 1)

	call := put.Args[0]
	assert.Equal(t, "CallExpression", call.Kind)
	require.Len(t, call.Args, 1)
	assert.Equal(t, "UnaryExpression", call.Args[0].Kind)
	assert.Equal(t, "-", call.Args[0].Op)
}

func TestYAMLEmptyArgs(t *testing.T) {
	prog, err := parser.Parse([]byte("let var x: Integer in f()"))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, backend.YAML{}.Emit(&out, prog))
	assert.Contains(t, out.String(), "args: []")
}
