package dcf

// Tag identifies the lexical class of a Token.
type Tag uint8

const (
	Identifier Tag = iota
	StringLiteral
	Colon
	Comma
	OpenRound
	CloseRound
	LessThan
	LessThanEqual
	Equal
	GreaterThanEqual
	GreaterThan
	Plus
	EndField
	EndStanza
	Invalid
	EOF
)

func (t Tag) String() string {
	switch t {
	case Identifier:
		return "identifier"
	case StringLiteral:
		return "string_literal"
	case Colon:
		return "colon"
	case Comma:
		return "comma"
	case OpenRound:
		return "open_round"
	case CloseRound:
		return "close_round"
	case LessThan:
		return "less_than"
	case LessThanEqual:
		return "less_than_equal"
	case Equal:
		return "equal"
	case GreaterThanEqual:
		return "greater_than_equal"
	case GreaterThan:
		return "greater_than"
	case Plus:
		return "plus"
	case EndField:
		return "end_field"
	case EndStanza:
		return "end_stanza"
	case Invalid:
		return "invalid"
	case EOF:
		return "eof"
	default:
		return "unknown"
	}
}

// Token is a lexical token with a byte span [Start, End) into the buffer
// the Tokenizer was constructed with.
type Token struct {
	Tag        Tag
	Start, End int
}

// Text returns the token's source text.
func (t Token) Text(src []byte) string {
	return string(src[t.Start:t.End])
}

// comparisonTags are the operator token tags that may introduce a
// constraint inside "name (op version)".
var comparisonTags = map[Tag]struct{}{
	LessThan:         {},
	LessThanEqual:    {},
	Equal:            {},
	GreaterThanEqual: {},
	GreaterThan:      {},
}

func isComparisonTag(tag Tag) bool {
	_, ok := comparisonTags[tag]
	return ok
}
