package ics

import (
	"fmt"
	"unicode/utf8"
)

type TokenKind int

const (
	// TokenWord is a run of name characters: ALPHA, DIGIT, "-" and "_".
	TokenWord TokenKind = iota
	// TokenSymbol is a run of any other printable ASCII, including SP and HTAB.
	TokenSymbol
	// TokenUnicodeText is a run of well-formed multi-byte UTF-8.
	TokenUnicodeText
	TokenComma
	TokenColon
	TokenSemicolon
	TokenEqual
	TokenDQuote
	// TokenNewline ends a logical content line. Folds never produce one.
	TokenNewline
	// TokenError covers control bytes, a bare CR and invalid UTF-8.
	TokenError
)

func (k TokenKind) String() string {
	switch k {
	case TokenWord:
		return "Word"
	case TokenSymbol:
		return "Symbol"
	case TokenUnicodeText:
		return "UnicodeText"
	case TokenComma:
		return "Comma"
	case TokenColon:
		return "Colon"
	case TokenSemicolon:
		return "Semicolon"
	case TokenEqual:
		return "Equal"
	case TokenDQuote:
		return "DQuote"
	case TokenNewline:
		return "Newline"
	case TokenError:
		return "Error"
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is a lexeme of the source. Text aliases the source.
type Token struct {
	Kind TokenKind
	Text string
	Span Span
}

func (t Token) String() string {
	if t.Kind == TokenNewline {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
}

var asciiClass [utf8.RuneSelf]TokenKind

func init() {
	for c := 0; c < utf8.RuneSelf; c++ {
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-', c == '_':
			asciiClass[c] = TokenWord
		case c == ',':
			asciiClass[c] = TokenComma
		case c == ':':
			asciiClass[c] = TokenColon
		case c == ';':
			asciiClass[c] = TokenSemicolon
		case c == '=':
			asciiClass[c] = TokenEqual
		case c == '"':
			asciiClass[c] = TokenDQuote
		case c == '\t', c >= 0x20 && c < 0x7F:
			asciiClass[c] = TokenSymbol
		default:
			asciiClass[c] = TokenError
		}
	}
}

type lexer struct {
	src    string
	pos    int
	tokens []Token
	diags  Diagnostics
}

// Lex tokenizes src, unfolding continuation lines. It is total: malformed
// input becomes TokenError tokens with a matching diagnostic and lexing
// carries on.
func Lex(src string) ([]Token, Diagnostics) {
	l := &lexer{src: src, tokens: make([]Token, 0, len(src)/4)}
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\r' || c == '\n':
			l.newline()
		case c >= utf8.RuneSelf:
			l.unicode()
		default:
			switch kind := asciiClass[c]; kind {
			case TokenWord, TokenSymbol:
				l.run(kind)
			case TokenError:
				l.errorToken(l.pos+1, KindInvalidCharacter, "invalid control character 0x%02X", c)
			default:
				l.emit(kind, l.pos+1)
			}
		}
	}
	return l.tokens, l.diags
}

func (l *lexer) emit(kind TokenKind, end int) {
	l.tokens = append(l.tokens, Token{Kind: kind, Text: l.src[l.pos:end], Span: Span{Start: l.pos, End: end}})
	l.pos = end
}

func (l *lexer) errorToken(end int, kind DiagnosticKind, format string, args ...any) {
	l.diags.add(PhaseLex, SeverityError, kind, Span{Start: l.pos, End: end}, format, args...)
	l.emit(TokenError, end)
}

func (l *lexer) newline() {
	n := 1
	if l.src[l.pos] == '\r' {
		if l.pos+1 >= len(l.src) || l.src[l.pos+1] != '\n' {
			l.errorToken(l.pos+1, KindBareCarriageReturn, "carriage return without line feed")
			return
		}
		n = 2
	}
	next := l.pos + n
	if next < len(l.src) && (l.src[next] == ' ' || l.src[next] == '\t') {
		// fold
		l.pos = next + 1
		return
	}
	l.emit(TokenNewline, next)
}

func (l *lexer) run(kind TokenKind) {
	end := l.pos + 1
	for end < len(l.src) && l.src[end] < utf8.RuneSelf && asciiClass[l.src[end]] == kind {
		end++
	}
	l.emit(kind, end)
}

func (l *lexer) unicode() {
	end := l.pos
	for end < len(l.src) && l.src[end] >= utf8.RuneSelf {
		r, size := utf8.DecodeRuneInString(l.src[end:])
		if r == utf8.RuneError && size <= 1 {
			break
		}
		end += size
	}
	if end > l.pos {
		l.emit(TokenUnicodeText, end)
		return
	}
	for end < len(l.src) && l.src[end] >= utf8.RuneSelf {
		if r, size := utf8.DecodeRuneInString(l.src[end:]); r != utf8.RuneError || size > 1 {
			break
		}
		end++
	}
	l.errorToken(end, KindInvalidUTF8, "invalid UTF-8 sequence")
}
