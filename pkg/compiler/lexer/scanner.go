package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// ScanError reports a character that starts no token.
type ScanError struct {
	Offset uint32
	Line   uint32
	Char   rune
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scanner: unexpected character %q at offset %d (line %d)", e.Char, e.Offset, e.Line)
}

// Scanner performs lexical analysis on Mini Triangle source.
type Scanner struct {
	source []byte
	cursor int
	line   int
}

// NewScanner creates a new scanner for the given source.
func NewScanner(source []byte) *Scanner {
	return &Scanner{
		source: source,
		line:   1,
	}
}

// Reset re-initializes the scanner with new source for reuse.
func (s *Scanner) Reset(source []byte) {
	s.source = source
	s.cursor = 0
	s.line = 1
}

// Scan tokenizes the whole source. The result always ends with exactly one
// KindEOT token. The first unrecognized character aborts the scan.
func Scan(source []byte) ([]Token, error) {
	s := NewScanner(source)
	var tokens []Token
	for {
		tok := s.Next()
		if tok.Kind == KindError {
			ch, _ := utf8.DecodeRune(source[tok.Offset:])
			return nil, &ScanError{Offset: tok.Offset, Line: tok.Line, Char: ch}
		}
		tokens = append(tokens, tok)
		if tok.Kind == KindEOT {
			return tokens, nil
		}
	}
}

// Next returns the next token from the source. Once the input is exhausted
// every call returns a KindEOT token at the end offset.
func (s *Scanner) Next() Token {
	s.skipSeparators()

	if s.cursor >= len(s.source) {
		return Token{Kind: KindEOT, Offset: uint32(len(s.source)), Line: uint32(s.line)}
	}

	start := s.cursor
	ch, size := s.current()

	if isLetter(ch) {
		return s.scanIdentifier()
	}
	if isDigit(ch) {
		return s.scanIntLiteral()
	}

	kind := KindError
	switch ch {
	case '+', '-', '*', '/', '<', '>', '=', '\\':
		kind = KindOperator
	case ':':
		if s.peek() == '=' {
			s.cursor += 2
			return Token{Kind: KindBecomes, Offset: uint32(start), Length: 2, Line: uint32(s.line)}
		}
		kind = KindColon
	case ';':
		kind = KindSemicolon
	case '~':
		kind = KindIs
	case '(':
		kind = KindLParen
	case ')':
		kind = KindRParen
	case ',':
		kind = KindComma
	}

	// The cursor does not advance past an unrecognized character: the token
	// is terminal for Scan and repeated Next calls keep reporting it.
	if kind == KindError {
		return Token{Kind: KindError, Offset: uint32(start), Length: uint32(size), Line: uint32(s.line)}
	}
	s.cursor += size
	return Token{Kind: kind, Offset: uint32(start), Length: uint32(size), Line: uint32(s.line)}
}

// skipSeparators consumes whitespace and '!' comments.
func (s *Scanner) skipSeparators() {
	for s.cursor < len(s.source) {
		ch := s.source[s.cursor]
		switch {
		case ch == '\n':
			s.line++
			s.cursor++
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f' || ch == '\v':
			s.cursor++
		case ch == '!':
			for s.cursor < len(s.source) && s.source[s.cursor] != '\n' {
				s.cursor++
			}
		default:
			return
		}
	}
}

func (s *Scanner) scanIdentifier() Token {
	start := s.cursor
	for s.cursor < len(s.source) {
		ch, size := s.current()
		if !isLetter(ch) && !isDigit(ch) {
			break
		}
		s.cursor += size
	}

	kind := KindIdentifier
	if k, ok := keywords[string(s.source[start:s.cursor])]; ok {
		kind = k
	}
	return Token{Kind: kind, Offset: uint32(start), Length: uint32(s.cursor - start), Line: uint32(s.line)}
}

func (s *Scanner) scanIntLiteral() Token {
	start := s.cursor
	for s.cursor < len(s.source) && isDigit(rune(s.source[s.cursor])) {
		s.cursor++
	}
	return Token{Kind: KindIntLiteral, Offset: uint32(start), Length: uint32(s.cursor - start), Line: uint32(s.line)}
}

func (s *Scanner) current() (rune, int) {
	ch := s.source[s.cursor]
	if ch < utf8.RuneSelf {
		return rune(ch), 1
	}
	return utf8.DecodeRune(s.source[s.cursor:])
}

func (s *Scanner) peek() byte {
	if s.cursor+1 >= len(s.source) {
		return 0
	}
	return s.source[s.cursor+1]
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch rune) bool {
	if ch < utf8.RuneSelf {
		return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
	}
	return unicode.IsLetter(ch)
}
