package dcf

// Tokenizer is a pull-based, byte-level lexer over DCF text. It always
// makes progress and always terminates by yielding an EOF token; it never
// returns an error, producing an Invalid token for unrecoverable byte
// sequences instead (spec'd as "infallible").
//
// The lexer is indentation-aware: a newline followed by space or tab
// continues the current field's value (absorbed as whitespace, no token
// emitted for it); a bare newline ends the field; a blank line ends the
// stanza. A '#' in column 0 begins a comment discarded up to the next
// newline.
type Tokenizer struct {
	src []byte
	pos int

	// atLineStart tracks whether pos is at column 0, used to recognize
	// '#' comments.
	atLineStart bool
}

// NewTokenizer constructs a Tokenizer over src, skipping a leading UTF-8
// BOM if present.
func NewTokenizer(src []byte) *Tokenizer {
	pos := 0
	if len(src) >= 3 && src[0] == 0xEF && src[1] == 0xBB && src[2] == 0xBF {
		pos = 3
	}
	return &Tokenizer{src: src, pos: pos, atLineStart: true}
}

// Next returns the next token. Once EOF is returned, subsequent calls
// continue to return EOF.
func (t *Tokenizer) Next() Token {
	for {
		t.skipComments()
		if t.pos >= len(t.src) {
			return Token{Tag: EOF, Start: t.pos, End: t.pos}
		}

		ch := t.src[t.pos]

		switch {
		case ch == '\n':
			if tok, ok := t.lexNewline(); ok {
				return tok
			}
			continue // continuation line: absorbed, rescan
		case ch == ' ' || ch == '\t':
			t.pos++
			t.atLineStart = false
			continue
		case ch == ':':
			return t.single(Colon)
		case ch == ',':
			return t.single(Comma)
		case ch == '(':
			return t.single(OpenRound)
		case ch == ')':
			return t.single(CloseRound)
		case ch == '+':
			return t.single(Plus)
		case ch == '<':
			return t.lexLessThan()
		case ch == '>':
			return t.lexGreaterThan()
		case ch == '=':
			return t.lexEqual()
		case isIdentStart(ch):
			return t.lexIdentifier()
		case ch >= '0' && ch <= '9':
			return t.lexVersionLiteral()
		default:
			return t.lexFreeFormString()
		}
	}
}

// skipComments discards '#' lines that begin in column 0, including their
// terminating newline: a comment line is structurally invisible, it never
// produces an EndField/EndStanza boundary of its own.
func (t *Tokenizer) skipComments() {
	for t.atLineStart && t.pos < len(t.src) && t.src[t.pos] == '#' {
		for t.pos < len(t.src) && t.src[t.pos] != '\n' {
			t.pos++
		}
		if t.pos < len(t.src) {
			t.pos++ // consume the newline terminating the comment line
		}
		t.atLineStart = true
	}
}

// lexNewline consumes the newline at t.pos and classifies it: continuation
// (returns ok=false, caller rescans), EndField, or EndStanza.
func (t *Tokenizer) lexNewline() (Token, bool) {
	start := t.pos
	t.pos++ // consume '\n'

	if t.pos < len(t.src) && (t.src[t.pos] == ' ' || t.src[t.pos] == '\t') {
		for t.pos < len(t.src) && (t.src[t.pos] == ' ' || t.src[t.pos] == '\t') {
			t.pos++
		}
		t.atLineStart = false
		return Token{}, false
	}

	if t.pos < len(t.src) && t.src[t.pos] == '\n' {
		for t.pos < len(t.src) && t.src[t.pos] == '\n' {
			t.pos++
		}
		t.atLineStart = true
		return Token{Tag: EndStanza, Start: start, End: t.pos}, true
	}

	t.atLineStart = true
	return Token{Tag: EndField, Start: start, End: t.pos}, true
}

func (t *Tokenizer) single(tag Tag) Token {
	start := t.pos
	t.pos++
	t.atLineStart = false
	return Token{Tag: tag, Start: start, End: t.pos}
}

func (t *Tokenizer) lexLessThan() Token {
	start := t.pos
	t.pos++
	t.atLineStart = false
	if t.pos < len(t.src) && t.src[t.pos] == '=' {
		t.pos++
		return Token{Tag: LessThanEqual, Start: start, End: t.pos}
	}
	return Token{Tag: LessThan, Start: start, End: t.pos}
}

func (t *Tokenizer) lexGreaterThan() Token {
	start := t.pos
	t.pos++
	t.atLineStart = false
	if t.pos < len(t.src) && t.src[t.pos] == '=' {
		t.pos++
		return Token{Tag: GreaterThanEqual, Start: start, End: t.pos}
	}
	return Token{Tag: GreaterThan, Start: start, End: t.pos}
}

func (t *Tokenizer) lexEqual() Token {
	start := t.pos
	t.pos++
	t.atLineStart = false
	if t.pos < len(t.src) && t.src[t.pos] == '=' {
		t.pos++
	}
	return Token{Tag: Equal, Start: start, End: t.pos}
}

func isIdentStart(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || ch == '_'
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}

// isIdentTolerated reports whether ch is one of the extra characters
// tolerated inside an identifier context (field keys like
// "Config/testthat/edition" or "Authors@R", dependency name decorations).
func isIdentTolerated(ch byte) bool {
	switch ch {
	case '/', '@', '*', '.', '-':
		return true
	default:
		return false
	}
}

// lexIdentifier scans [A-Za-z_][A-Za-z0-9_]*, tolerating embedded
// decoration characters until a structural byte, whitespace, or operator
// byte is hit.
func (t *Tokenizer) lexIdentifier() Token {
	start := t.pos
	t.pos++
	for t.pos < len(t.src) {
		ch := t.src[t.pos]
		if isIdentContinue(ch) || isIdentTolerated(ch) {
			t.pos++
			continue
		}
		break
	}
	t.atLineStart = false
	return Token{Tag: Identifier, Start: start, End: t.pos}
}

// lexVersionLiteral scans a numeric-leading version literal: digits, '.',
// '-', and the 'r'/'R' SVN-revision escape. Reuses the Identifier tag —
// the DCF token set has no distinct tag for version text; the parser
// distinguishes context by position (inside a dependency constraint vs. a
// plain field value).
func (t *Tokenizer) lexVersionLiteral() Token {
	start := t.pos
	for t.pos < len(t.src) {
		ch := t.src[t.pos]
		if (ch >= '0' && ch <= '9') || ch == '.' || ch == '-' || ch == 'r' || ch == 'R' {
			t.pos++
			continue
		}
		break
	}
	t.atLineStart = false
	return Token{Tag: Identifier, Start: start, End: t.pos}
}

// lexFreeFormString consumes bytes until a structural end-of-field
// newline (continuation newlines are transparently absorbed), producing a
// StringLiteral token spanning from the current position to the end of
// the logical line.
func (t *Tokenizer) lexFreeFormString() Token {
	start := t.pos
	for t.pos < len(t.src) {
		ch := t.src[t.pos]
		if ch == '\n' {
			if t.pos+1 < len(t.src) && (t.src[t.pos+1] == ' ' || t.src[t.pos+1] == '\t') {
				t.pos++ // consume newline
				for t.pos < len(t.src) && (t.src[t.pos] == ' ' || t.src[t.pos] == '\t') {
					t.pos++
				}
				continue
			}
			break
		}
		if ch == '\\' && t.pos+1 >= len(t.src) {
			end := t.pos
			t.pos++
			return Token{Tag: Invalid, Start: start, End: end + 1}
		}
		t.pos++
	}
	t.atLineStart = false
	return Token{Tag: StringLiteral, Start: start, End: t.pos}
}
