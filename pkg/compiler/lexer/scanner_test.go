package lexer_test

import (
	"errors"
	"testing"

	"github.com/agenthands/minitri/pkg/compiler/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []lexer.Token) []lexer.Kind {
	out := make([]lexer.Kind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func TestScannerZeroAlloc(t *testing.T) {
	src := []byte("let var x: Integer in begin x := x + 1; putint(x) end ! trailing comment")
	s := lexer.NewScanner(src)

	allocs := testing.AllocsPerRun(10, func() {
		s.Reset(src)
		for {
			tok := s.Next()
			if tok.Kind == lexer.KindEOT || tok.Kind == lexer.KindError {
				break
			}
		}
	})

	if allocs > 0 {
		t.Errorf("expected 0 allocations, got %f", allocs)
	}
}

func TestScanKeywordsAndPunctuation(t *testing.T) {
	src := []byte("begin const do else end if in let then var while func return ; : := ~ ( ) ,")
	tokens, err := lexer.Scan(src)
	require.NoError(t, err)

	expected := []lexer.Kind{
		lexer.KindBegin, lexer.KindConst, lexer.KindDo, lexer.KindElse, lexer.KindEnd,
		lexer.KindIf, lexer.KindIn, lexer.KindLet, lexer.KindThen, lexer.KindVar,
		lexer.KindWhile, lexer.KindFunc, lexer.KindReturn,
		lexer.KindSemicolon, lexer.KindColon, lexer.KindBecomes, lexer.KindIs,
		lexer.KindLParen, lexer.KindRParen, lexer.KindComma,
		lexer.KindEOT,
	}
	assert.Equal(t, expected, kinds(tokens))
}

func TestScanLiteralsAndPositions(t *testing.T) {
	src := []byte("x1 := 42 \\ y\n! comment\nBegin")
	tokens, err := lexer.Scan(src)
	require.NoError(t, err)
	require.Len(t, tokens, 7)

	tests := []struct {
		kind   lexer.Kind
		text   string
		offset uint32
		line   uint32
	}{
		{lexer.KindIdentifier, "x1", 0, 1},
		{lexer.KindBecomes, ":=", 3, 1},
		{lexer.KindIntLiteral, "42", 6, 1},
		{lexer.KindOperator, "\\", 9, 1},
		{lexer.KindIdentifier, "y", 11, 1},
		// keywords are case-sensitive
		{lexer.KindIdentifier, "Begin", 23, 3},
		{lexer.KindEOT, "", 28, 3},
	}
	for i, tt := range tests {
		tok := tokens[i]
		assert.Equal(t, tt.kind, tok.Kind, "token %d kind", i)
		assert.Equal(t, tt.text, tok.Text(src), "token %d text", i)
		assert.Equal(t, tt.offset, tok.Offset, "token %d offset", i)
		assert.Equal(t, tt.line, tok.Line, "token %d line", i)
	}
}

func TestScanOperators(t *testing.T) {
	src := []byte("+-*/<>=\\")
	tokens, err := lexer.Scan(src)
	require.NoError(t, err)
	require.Len(t, tokens, 9)
	for i, op := range []byte("+-*/<>=\\") {
		assert.True(t, tokens[i].IsOperator(src, op), "operator %q", op)
	}
}

func TestScanColonLookahead(t *testing.T) {
	tokens, err := lexer.Scan([]byte("x:Integer y :=1 z: ="))
	require.NoError(t, err)
	assert.Equal(t, []lexer.Kind{
		lexer.KindIdentifier, lexer.KindColon, lexer.KindIdentifier,
		lexer.KindIdentifier, lexer.KindBecomes, lexer.KindIntLiteral,
		lexer.KindIdentifier, lexer.KindColon, lexer.KindOperator,
		lexer.KindEOT,
	}, kinds(tokens))
}

func TestScanCommentAtEndOfInput(t *testing.T) {
	tokens, err := lexer.Scan([]byte("x ! no newline follows"))
	require.NoError(t, err)
	assert.Equal(t, []lexer.Kind{lexer.KindIdentifier, lexer.KindEOT}, kinds(tokens))
}

func TestScanEmptyInput(t *testing.T) {
	tokens, err := lexer.Scan(nil)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, lexer.KindEOT, tokens[0].Kind)
	assert.Equal(t, uint32(0), tokens[0].Offset)
}

func TestNextIsIdempotentAtEnd(t *testing.T) {
	s := lexer.NewScanner([]byte("x"))
	require.Equal(t, lexer.KindIdentifier, s.Next().Kind)

	first := s.Next()
	second := s.Next()
	assert.Equal(t, lexer.KindEOT, first.Kind)
	assert.Equal(t, first, second)
}

func TestScanUnrecognizedCharacter(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		char   rune
		offset uint32
		line   uint32
	}{
		{"dollar", "x := $", '$', 5, 1},
		{"brace on second line", "x := 1;\n{", '{', 8, 2},
		{"non-ascii symbol", "x := 1 € 2", '€', 7, 1},
		{"lone period", ".", '.', 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := lexer.Scan([]byte(tt.src))
			assert.Nil(t, tokens)

			var scanErr *lexer.ScanError
			require.True(t, errors.As(err, &scanErr), "got %v", err)
			assert.Equal(t, tt.char, scanErr.Char)
			assert.Equal(t, tt.offset, scanErr.Offset)
			assert.Equal(t, tt.line, scanErr.Line)
		})
	}
}

func TestScanUnicodeIdentifier(t *testing.T) {
	src := []byte("größe := 1")
	tokens, err := lexer.Scan(src)
	require.NoError(t, err)
	assert.Equal(t, "größe", tokens[0].Text(src))
	assert.Equal(t, lexer.KindIdentifier, tokens[0].Kind)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "BECOMES", lexer.KindBecomes.String())
	assert.Equal(t, "EOT", lexer.KindEOT.String())
	assert.Equal(t, "UNKNOWN", lexer.Kind(200).String())
}

func BenchmarkScan(b *testing.B) {
	src := []byte(`! Factorial
let var x: Integer;
    var fact: Integer
in
  begin
    getint(x);
    fact := 1;
    while x > 0 do
      begin
        fact := fact * x;
        x := x - 1
      end;
    putint(fact)
  end`)
	s := lexer.NewScanner(src)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.Reset(src)
		for s.Next().Kind != lexer.KindEOT {
		}
	}
}
