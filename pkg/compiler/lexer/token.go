package lexer

// Kind represents the type of token identified by the scanner.
type Kind uint8

const (
	KindEOT Kind = iota
	KindError
	KindIdentifier
	KindIntLiteral
	KindOperator // + - * / < > = \

	// Keywords
	KindBegin
	KindConst
	KindDo
	KindElse
	KindEnd
	KindIf
	KindIn
	KindLet
	KindThen
	KindVar
	KindWhile
	KindFunc
	KindReturn

	KindSemicolon // ;
	KindColon     // :
	KindBecomes   // :=
	KindIs        // ~
	KindLParen    // (
	KindRParen    // )
	KindComma     // ,
)

var kindNames = [...]string{
	KindEOT:        "EOT",
	KindError:      "ERROR",
	KindIdentifier: "IDENTIFIER",
	KindIntLiteral: "INTLITERAL",
	KindOperator:   "OPERATOR",
	KindBegin:      "BEGIN",
	KindConst:      "CONST",
	KindDo:         "DO",
	KindElse:       "ELSE",
	KindEnd:        "END",
	KindIf:         "IF",
	KindIn:         "IN",
	KindLet:        "LET",
	KindThen:       "THEN",
	KindVar:        "VAR",
	KindWhile:      "WHILE",
	KindFunc:       "FUNC",
	KindReturn:     "RETURN",
	KindSemicolon:  "SEMICOLON",
	KindColon:      "COLON",
	KindBecomes:    "BECOMES",
	KindIs:         "IS",
	KindLParen:     "LPAREN",
	KindRParen:     "RPAREN",
	KindComma:      "COMMA",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// keywords is the exact, case-sensitive keyword table.
var keywords = map[string]Kind{
	"begin":  KindBegin,
	"const":  KindConst,
	"do":     KindDo,
	"else":   KindElse,
	"end":    KindEnd,
	"if":     KindIf,
	"in":     KindIn,
	"let":    KindLet,
	"then":   KindThen,
	"var":    KindVar,
	"while":  KindWhile,
	"func":   KindFunc,
	"return": KindReturn,
}

// Token represents a lexical unit pointing back to the source.
// The literal value, when the kind has one, is source[Offset:Offset+Length].
type Token struct {
	Kind   Kind
	Offset uint32
	Length uint32
	Line   uint32
}

// Text returns the token's literal text within src.
func (t Token) Text(src []byte) string {
	end := int(t.Offset + t.Length)
	if end > len(src) {
		return ""
	}
	return string(src[t.Offset:end])
}

// IsOperator reports whether t is the operator op.
func (t Token) IsOperator(src []byte, op byte) bool {
	return t.Kind == KindOperator && t.Length == 1 && int(t.Offset) < len(src) && src[t.Offset] == op
}
